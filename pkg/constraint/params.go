package constraint

import (
	"fmt"

	"mercator-hq/vesta/pkg/credential"
)

// intParam extracts a required integer parameter. YAML and JSON decoders
// produce int, int64 or float64 depending on the source, so all three are
// accepted as long as the value is a whole number.
func intParam(constraintID string, params map[string]any, key string) (int, error) {
	raw, ok := params[key]
	if !ok {
		return 0, &credential.ConfigError{
			ConstraintID: constraintID,
			Param:        key,
			Message:      "required parameter missing",
		}
	}

	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, &credential.ConfigError{
				ConstraintID: constraintID,
				Param:        key,
				Message:      fmt.Sprintf("expected integer, got %v", v),
			}
		}
		return int(v), nil
	default:
		return 0, &credential.ConfigError{
			ConstraintID: constraintID,
			Param:        key,
			Message:      fmt.Sprintf("expected integer, got %T", raw),
		}
	}
}

// intParamDefault extracts an optional integer parameter.
func intParamDefault(constraintID string, params map[string]any, key string, def int) (int, error) {
	if _, ok := params[key]; !ok {
		return def, nil
	}
	return intParam(constraintID, params, key)
}

// boolParamDefault extracts an optional boolean parameter.
func boolParamDefault(constraintID string, params map[string]any, key string, def bool) (bool, error) {
	raw, ok := params[key]
	if !ok {
		return def, nil
	}
	v, ok := raw.(bool)
	if !ok {
		return false, &credential.ConfigError{
			ConstraintID: constraintID,
			Param:        key,
			Message:      fmt.Sprintf("expected boolean, got %T", raw),
		}
	}
	return v, nil
}

// stringListParam extracts a required list-of-strings parameter. YAML
// decoding yields []any, so both []string and []any are accepted.
func stringListParam(constraintID string, params map[string]any, key string) ([]string, error) {
	raw, ok := params[key]
	if !ok {
		return nil, &credential.ConfigError{
			ConstraintID: constraintID,
			Param:        key,
			Message:      "required parameter missing",
		}
	}

	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, &credential.ConfigError{
					ConstraintID: constraintID,
					Param:        key,
					Message:      fmt.Sprintf("expected list of strings, got element of type %T", item),
				}
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, &credential.ConfigError{
			ConstraintID: constraintID,
			Param:        key,
			Message:      fmt.Sprintf("expected list of strings, got %T", raw),
		}
	}
}
