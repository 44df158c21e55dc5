package paths

import (
	"strings"

	"github.com/arthur-debert/luadb/pkg/errors"
)

// Output layout constants
const (
	// RootDir is the first segment of every output path
	RootDir = "lua_db"

	// CoreSentinel is the file stem that marks a core table file
	CoreSentinel = "data__"

	GroupCore    = "core"
	GroupModCore = "mod_core"
	GroupMod     = "mod"

	// Extension is appended to the final stem
	Extension = ".lua"
)

// PathInput is everything Derive needs for one table
type PathInput struct {
	TableName string
	FileStem  string
	IsBaseMod bool

	// CorePrefix overrides the prefix used for a non-base core file
	CorePrefix string

	// SourceStem is the stem of the archive the table came from
	SourceStem string
}

// Derive computes the four output path segments for a table
func Derive(in PathInput) ([]string, error) {
	group := GroupMod
	stem := in.FileStem

	if in.FileStem == CoreSentinel {
		if in.IsBaseMod {
			group = GroupCore
		} else {
			group = GroupModCore
			prefix := in.CorePrefix
			if prefix == "" {
				prefix = in.SourceStem
			}
			if prefix == "" {
				return nil, errors.Newf(errors.ErrAmbiguousCorePrefix,
					"cannot name core file of table %s: no core prefix and no source name", in.TableName).
					WithDetail("table", in.TableName)
			}
			stem = prefix + "_" + CoreSentinel
		}
	}

	return []string{RootDir, group, in.TableName, stem + Extension}, nil
}

// Join joins path segments with '/'
func Join(segments []string) string {
	return strings.Join(segments, "/")
}
