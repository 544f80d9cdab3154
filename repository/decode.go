package repository

import (
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/toolbox/errors"
)

// decode copies attrs onto dst by json tag, converting strings into ids,
// numbers, UUIDs and RFC3339 timestamps.
func decode(attrs map[string]any, dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Squash:           true,
		WeaklyTypedInput: true,
		Result:           dst,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return errors.Internal(err)
	}
	if err := dec.Decode(attrs); err != nil {
		return errors.InvalidInput("", err.Error()).WithCause(err)
	}
	return nil
}
