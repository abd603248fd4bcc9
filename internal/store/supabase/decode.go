package supabase

import (
	"time"

	"github.com/mitchellh/mapstructure"
)

// decodeRows converts PostgREST rows into target using the json tags of the
// domain types, so both backends share a single field naming.
func decodeRows(rows any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Result:     target,
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return err
	}

	return decoder.Decode(rows)
}
