package query

import (
	"fmt"
	"os"

	"propensity/internal/common"
	"propensity/pkg/errors"
)

// ScriptName is the file name WriteScripts uses for the i-th statement.
func ScriptName(i int, stmt Statement) string {
	return fmt.Sprintf("%02d_%s.sql", i+1, stmt.Stage)
}

// WriteScripts writes each statement to its own numbered file in dir and
// returns the written paths in pipeline order.
func WriteScripts(dir string, statements []Statement) ([]string, error) {
	cleaned, err := common.CleanPath(dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFileOperation, "Invalid output directory").
			WithContext("path", dir)
	}
	if err := os.MkdirAll(cleaned, common.DirPermissionNormal); err != nil {
		return nil, errors.FileError("Failed to create output directory", cleaned, err)
	}

	paths := make([]string, 0, len(statements))
	for i, stmt := range statements {
		path, err := common.JoinPath(cleaned, ScriptName(i, stmt))
		if err != nil {
			return paths, errors.Wrap(err, errors.ErrCodeFileOperation, "Invalid script name").
				WithContext("stage", stmt.Stage.String())
		}
		if err := os.WriteFile(path, []byte(stmt.SQL), common.FilePermissionNormal); err != nil {
			return paths, errors.FileError("Failed to write query script", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
