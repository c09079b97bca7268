package web

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/shar-tools/p3d_browser/p3d"
	"github.com/shar-tools/p3d_browser/utils"
	"github.com/shar-tools/p3d_browser/vfs"
)

var ServerDirectory vfs.Directory
var DecodeOptions *p3d.Options

func NewRouter(d vfs.Directory, opts *p3d.Options) http.Handler {
	ServerDirectory = d
	DecodeOptions = opts

	r := mux.NewRouter()
	r.HandleFunc("/json/files", HandlerJsonFiles)
	r.HandleFunc("/json/file/{file}", HandlerJsonFile)
	r.HandleFunc("/json/file/{file}/extract/{kind}", HandlerJsonFileExtract)
	r.HandleFunc("/json/file/{file}/stats", HandlerJsonFileStats)
	r.HandleFunc("/dump/file/{file}", HandlerDumpFile)
	r.HandleFunc("/action/{file}/{action}", HandlerActionFile)
	r.HandleFunc("/ws/status", HandlerStatus)

	return handlers.RecoveryHandler()(handlers.LoggingHandler(utils.Log, r))
}

func StartServer(addr string, d vfs.Directory, opts *p3d.Options) error {
	h := NewRouter(d, opts)
	utils.Log.Info().Str("addr", addr).Msg("[web] Starting server")
	return http.ListenAndServe(addr, h)
}
