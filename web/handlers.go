package web

import (
	"bytes"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/shar-tools/p3d_browser/p3d"
	"github.com/shar-tools/p3d_browser/p3d/p3dexport"
	"github.com/shar-tools/p3d_browser/status"
	"github.com/shar-tools/p3d_browser/utils"
	"github.com/shar-tools/p3d_browser/vfs"
	"github.com/shar-tools/p3d_browser/webutils"
)

// errorCode picks the response status for a load failure.
func errorCode(err error) int {
	var de *p3d.DecodeError
	switch {
	case errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.As(err, &de):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func loadTree(file string) (*p3d.Tree, []byte, error) {
	data, err := vfs.ReadFile(ServerDirectory, file)
	if err != nil {
		return nil, nil, err
	}
	tree, err := p3d.DecodeTree(data, DecodeOptions)
	if err != nil {
		utils.Log.Warn().Str("file", file).Err(err).Msg("Decode failed")
		status.Error("Failed to decode %s: %v", file, err)
		return nil, data, errors.Wrapf(err, "file %s", file)
	}
	if tree.Trailing != 0 {
		utils.Log.Debug().Str("file", file).Int("trailing", tree.Trailing).Msg("Trailing data after root chunk")
	}
	status.Info("Decoded %s", file)
	return tree, data, nil
}

// handleTree loads the file named in the route or writes the error response.
func handleTree(w http.ResponseWriter, r *http.Request) (*p3d.Tree, []byte, bool) {
	tree, data, err := loadTree(mux.Vars(r)["file"])
	if err != nil {
		webutils.WriteError(w, errorCode(err), err)
		return nil, nil, false
	}
	return tree, data, true
}

func HandlerJsonFiles(w http.ResponseWriter, r *http.Request) {
	files, err := vfs.ListFiles(ServerDirectory, "")
	if err != nil {
		webutils.WriteError(w, http.StatusInternalServerError, err)
		return
	}
	webutils.WriteJson(w, files)
}

func HandlerJsonFile(w http.ResponseWriter, r *http.Request) {
	if tree, _, ok := handleTree(w, r); ok {
		webutils.WriteJson(w, tree)
	}
}

func HandlerJsonFileExtract(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]
	if !p3d.IsExtractKind(kind) {
		webutils.WriteError(w, http.StatusBadRequest, errors.Errorf("unknown kind %q", kind))
		return
	}
	if tree, _, ok := handleTree(w, r); ok {
		result := p3d.Extract(tree.Root, p3d.KindPredicate(kind))
		if result == nil {
			result = []p3d.Variant{}
		}
		webutils.WriteJson(w, p3d.JSONValue(result))
	}
}

type fileStats struct {
	Size     int            `json:"size"`
	Trailing int            `json:"trailing"`
	Kinds    map[string]int `json:"kinds"`
}

func HandlerJsonFileStats(w http.ResponseWriter, r *http.Request) {
	if tree, data, ok := handleTree(w, r); ok {
		webutils.WriteJson(w, &fileStats{
			Size:     len(data),
			Trailing: tree.Trailing,
			Kinds:    p3d.Count(tree.Root),
		})
	}
}

func HandlerDumpFile(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	data, err := vfs.ReadFile(ServerDirectory, file)
	if err != nil {
		webutils.WriteError(w, errorCode(err), err)
		return
	}
	webutils.WriteFile(w, bytes.NewReader(data), file)
}

func HandlerActionFile(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	action := mux.Vars(r)["action"]

	if action == "layout" {
		handleLayout(w, file)
		return
	}

	tree, _, ok := handleTree(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	var name string
	switch action {
	case "obj":
		name = file + ".obj"
		variants := p3d.Extract(tree.Root, p3d.KindPredicate(p3d.KIND_ALL))
		if err := p3dexport.ExportObj(&buf, variants, p3dexport.DefaultShapeOptions); err != nil {
			webutils.WriteError(w, http.StatusInternalServerError, err)
			return
		}
	case "gltf":
		name = file + ".glb"
		variants := p3d.Extract(tree.Root, p3d.KindPredicate(p3d.KIND_ALL))
		if err := p3dexport.WriteGLB(&buf, variants, p3dexport.DefaultShapeOptions); err != nil {
			webutils.WriteError(w, http.StatusInternalServerError, err)
			return
		}
	case "yaml":
		name = file + ".yaml"
		enc := yaml.NewEncoder(&buf)
		if err := enc.Encode(tree); err != nil {
			webutils.WriteError(w, http.StatusInternalServerError, errors.Wrapf(err, "yaml"))
			return
		}
		enc.Close()
	case "spew":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		utils.Dump(w, tree)
		return
	default:
		webutils.WriteError(w, http.StatusBadRequest, errors.Errorf("unknown action %q", action))
		return
	}

	webutils.WriteFile(w, &buf, name)
}

// handleLayout renders the byte ranges of every chunk. Files that fail to
// decode are shown up to the failing chunk, followed by the error.
func handleLayout(w http.ResponseWriter, file string) {
	data, err := vfs.ReadFile(ServerDirectory, file)
	if err != nil {
		webutils.WriteError(w, errorCode(err), err)
		return
	}
	layout, err := p3d.Layout(data, DecodeOptions)
	if err != nil {
		layout += "error: " + err.Error() + "\n"
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	webutils.WriteResult(w, []byte(layout))
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func HandlerStatus(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		utils.Log.Warn().Err(err).Msg("[status] upgrade failed")
		return
	}
	status.NewClient(conn)
}
