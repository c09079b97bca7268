package main

import (
	"github.com/pkg/errors"

	"github.com/shar-tools/p3d_browser/p3d"
	"github.com/shar-tools/p3d_browser/status"
	"github.com/shar-tools/p3d_browser/utils"
	"github.com/shar-tools/p3d_browser/vfs"
)

type parseCheckResult struct {
	Decoded int
	Failed  int
	// failures per error kind
	ByKind map[string]int
}

func errorKind(err error) string {
	for _, kind := range []error{
		p3d.ErrTruncatedInput, p3d.ErrMagicMismatch,
		p3d.ErrSizeInconsistency, p3d.ErrNestingTooDeep,
	} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "io"
}

// parseCheck decodes every file in rootfs. A bad file is logged and skipped.
func parseCheck(rootfs vfs.Directory, opts *p3d.Options) parseCheckResult {
	result := parseCheckResult{ByKind: make(map[string]int)}

	files, err := vfs.ListFiles(rootfs, "")
	if err != nil {
		utils.Log.Error().Err(err).Msg("Failed to list files")
		result.Failed++
		result.ByKind["io"]++
		return result
	}

	for i, fname := range files {
		status.Progress(float32(i)/float32(len(files)), "Checking %s", fname)

		data, err := vfs.ReadFile(rootfs, fname)
		if err == nil {
			var tree *p3d.Tree
			if tree, err = p3d.DecodeTree(data, opts); err == nil {
				result.Decoded++
				utils.Log.Debug().Str("file", fname).Int("trailing", tree.Trailing).
					Interface("kinds", p3d.Count(tree.Root)).Msg("Decoded")
				continue
			}
		}

		kind := errorKind(err)
		result.Failed++
		result.ByKind[kind]++
		event := utils.Log.Warn().Str("file", fname).Str("kind", kind).Err(err)
		var de *p3d.DecodeError
		if errors.As(err, &de) {
			event = event.Int("offset", de.Offset)
			if de.HasTag {
				event = event.Str("tag", p3d.TagName(de.Tag))
			}
		}
		event.Msg("Decode failed")
	}

	utils.Log.Info().Int("decoded", result.Decoded).Int("failed", result.Failed).
		Interface("byKind", result.ByKind).Msg("Parse check done")
	status.Info("Parse check: %d decoded, %d failed", result.Decoded, result.Failed)
	return result
}
