package pickler

import (
	goccy "github.com/goccy/go-json"
)

// JSON is the default Pickler, backed by goccy/go-json the way the teacher
// uses it everywhere (juicemud.go, structs.go) for both wire payloads and
// on-disk JSON columns. It round-trips any value JSON can represent.
type JSON struct{}

func (JSON) Dump(v any) ([]byte, error) {
	return goccy.Marshal(v)
}

func (JSON) Load(b []byte, dst any) error {
	return goccy.Unmarshal(b, dst)
}
