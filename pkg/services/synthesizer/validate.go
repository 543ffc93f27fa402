package synthesizer

import (
	"fmt"
	"strings"

	"github.com/retailops/salescope/pkg/models/domain"
	"github.com/retailops/salescope/pkg/services/schema"
)

// validateFields checks every field the generated pipeline references against
// the target catalog, instead of trusting the model blindly. Aliases created
// by earlier stages ($group keys, $addFields, $project renames) are tracked
// so later references to them validate.
func validateFields(pipeline domain.Pipeline, catalog schema.Catalog) error {
	aliases := map[string]bool{"_id": true}

	for _, stage := range pipeline {
		for operator, body := range stage {
			switch operator {
			case "$match":
				if m, ok := body.(map[string]any); ok {
					if err := checkMatchFields(m, catalog, aliases); err != nil {
						return err
					}
				}
			case "$group", "$addFields", "$set", "$project", "$sort":
				if m, ok := body.(map[string]any); ok {
					for alias, expr := range m {
						if !strings.HasPrefix(alias, "$") {
							if err := checkExprRefs(expr, catalog, aliases); err != nil {
								return err
							}
						}
					}
					// Aliases become visible to subsequent stages.
					if operator != "$sort" && operator != "$match" {
						for alias := range m {
							if !strings.HasPrefix(alias, "$") {
								aliases[alias] = true
							}
						}
					}
				}
			case "$unwind":
				if path, ok := body.(string); ok {
					if err := checkRef(path, catalog, aliases); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func checkMatchFields(match map[string]any, catalog schema.Catalog, aliases map[string]bool) error {
	for key, val := range match {
		if strings.HasPrefix(key, "$") {
			// Logical operators ($or, $and, ...) hold nested clauses.
			if clauses, ok := val.([]any); ok {
				for _, clause := range clauses {
					if m, ok := clause.(map[string]any); ok {
						if err := checkMatchFields(m, catalog, aliases); err != nil {
							return err
						}
					}
				}
			}
			continue
		}
		if !catalog.HasField(key) && !aliases[key] {
			return fmt.Errorf("pipeline references unknown field %q in %s", key, catalog.Collection)
		}
	}
	return nil
}

// checkExprRefs walks an expression tree looking for "$field" path strings.
func checkExprRefs(expr any, catalog schema.Catalog, aliases map[string]bool) error {
	switch v := expr.(type) {
	case string:
		return checkRef(v, catalog, aliases)
	case map[string]any:
		for _, nested := range v {
			if err := checkExprRefs(nested, catalog, aliases); err != nil {
				return err
			}
		}
	case []any:
		for _, nested := range v {
			if err := checkExprRefs(nested, catalog, aliases); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkRef(ref string, catalog schema.Catalog, aliases map[string]bool) error {
	if !strings.HasPrefix(ref, "$") || strings.HasPrefix(ref, "$$") {
		return nil
	}
	field := strings.TrimPrefix(ref, "$")
	root := field
	if i := strings.IndexByte(field, '.'); i >= 0 {
		root = field[:i]
	}
	if catalog.HasField(field) || catalog.HasField(root) || aliases[root] {
		return nil
	}
	return fmt.Errorf("pipeline references unknown field %q in %s", field, catalog.Collection)
}
