package config

import (
	"encoding/json"
	"fmt"
)

// Var is a configuration value given either literally or as the name of a
// configuration variable that is fetched when the value is used.
//
// In TOML a variable is written as an inline table: url = { var = "RPC_URL" }.
type Var struct {
	Name  string
	Value string
}

// Literal returns a Var holding a plain value.
func Literal(value string) Var {
	return Var{Value: value}
}

// Variable returns a Var referring to the named configuration variable.
func Variable(name string) Var {
	return Var{Name: name}
}

// IsVariable reports whether v refers to a configuration variable.
func (v Var) IsVariable() bool {
	return v.Name != ""
}

// IsZero reports whether v holds neither a value nor a variable name.
func (v Var) IsZero() bool {
	return v.Name == "" && v.Value == ""
}

// String never reveals the value of a variable.
func (v Var) String() string {
	if v.IsVariable() {
		return "<var " + v.Name + ">"
	}
	return v.Value
}

// UnmarshalTOML decodes a string or a { var = "NAME" } table.
func (v *Var) UnmarshalTOML(data any) error {
	switch d := data.(type) {
	case string:
		*v = Literal(d)
		return nil
	case map[string]any:
		name, ok := d["var"].(string)
		if !ok || name == "" {
			return fmt.Errorf("configuration variable table needs a non-empty \"var\" key")
		}
		*v = Variable(name)
		return nil
	default:
		return fmt.Errorf("expected string or { var = \"NAME\" }, got %T", data)
	}
}

type varJSON struct {
	Var string `json:"var"`
}

// UnmarshalJSON decodes a string or a {"var": "NAME"} object.
func (v *Var) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Literal(s)
		return nil
	}
	var obj varJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("expected string or {\"var\": \"NAME\"}: %w", err)
	}
	if obj.Var == "" {
		return fmt.Errorf("configuration variable object needs a non-empty \"var\" key")
	}
	*v = Variable(obj.Var)
	return nil
}

// MarshalJSON mirrors UnmarshalJSON.
func (v Var) MarshalJSON() ([]byte, error) {
	if v.IsVariable() {
		return json.Marshal(varJSON{Var: v.Name})
	}
	return json.Marshal(v.Value)
}
