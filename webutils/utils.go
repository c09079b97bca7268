package webutils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/shar-tools/p3d_browser/utils"
)

func WriteFileHeaders(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
}

func WriteFile(w http.ResponseWriter, in io.Reader, name string) {
	WriteFileHeaders(w, name)
	if _, err := io.Copy(w, in); err != nil {
		utils.Log.Warn().Err(err).Str("file", name).Msg("Error when writing file response")
	}
}

func WriteJson(w http.ResponseWriter, data interface{}) {
	res, err := json.Marshal(data)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err)
	} else {
		w.Header().Set("Content-Type", "application/json")
		WriteResult(w, res)
	}
}

func WriteResult(w http.ResponseWriter, data []byte) {
	if _, err := w.Write(data); err != nil {
		utils.Log.Warn().Err(err).Msg("Error when writing response")
	}
}

// WriteError answers with {"error": ...} and the given status code.
func WriteError(w http.ResponseWriter, code int, err error) {
	type jError struct {
		Error string `json:"error"`
	}
	data, merr := json.Marshal(&jError{Error: err.Error()})
	if merr != nil {
		utils.Log.Error().Err(merr).Msgf("Error marshaling error '%v'", err)
		http.Error(w, err.Error(), code)
		return
	}
	utils.Log.Info().Int("code", code).Msg(string(data))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	WriteResult(w, data)
}
