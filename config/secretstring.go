package config

// SecretStringValue replaces secrets whenever configuration is printed.
const SecretStringValue = "<secret>"

// SecretString holds credentials which must never show up in logs, dumped
// configuration or debug reports.
type SecretString string

// Reveal returns actual value, it is the only way to get it.
func (s SecretString) Reveal() string {
	return string(s)
}

func (s SecretString) String() string {
	if len(s) == 0 {
		return ""
	}
	return SecretStringValue
}

func (s SecretString) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return []byte(`"` + SecretStringValue + `"`), nil
}

func (s SecretString) MarshalYAML() (any, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return SecretStringValue, nil
}
