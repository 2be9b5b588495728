package helper

import (
	"fmt"
	"os"
	"strings"

	"github.com/TylerBrock/colorjson"
	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/yaoapp/kun/any"
)

// EnvString replace $ENV.xxx with the env
func EnvString(key interface{}, defaults ...string) string {
	k, ok := key.(string)
	if !ok {
		if len(defaults) > 0 {
			return defaults[0]
		}
		return ""
	}

	if strings.HasPrefix(k, "$ENV.") {
		v := os.Getenv(strings.TrimPrefix(k, "$ENV."))
		if v == "" && len(defaults) > 0 {
			return defaults[0]
		}
		return v
	}

	if k == "" && len(defaults) > 0 {
		return defaults[0]
	}
	return k
}

// EnvInt replace $ENV.xxx with the env and cast to the integer
func EnvInt(key interface{}, defaults ...int) int {
	if k, ok := key.(string); ok && strings.HasPrefix(k, "$ENV.") {
		v := os.Getenv(strings.TrimPrefix(k, "$ENV."))
		if v == "" {
			if len(defaults) > 0 {
				return defaults[0]
			}
			return 0
		}
		return any.Of(v).CInt()
	}

	v, ok := key.(int)
	if !ok {
		if key == nil && len(defaults) > 0 {
			return defaults[0]
		}
		return any.Of(key).CInt()
	}
	return v
}

// Dump The Dump function dumps the given variables:
func Dump(values ...interface{}) {
	f := colorjson.NewFormatter()
	f.Indent = 4
	f.RawStrings = true
	for _, v := range values {

		if err, ok := v.(error); ok {
			color.Red(err.Error())
			continue
		}

		switch v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
			color.Cyan(fmt.Sprintf("%v", v))
			continue

		case string, []byte:
			color.Green(fmt.Sprintf("%s", v))
			continue

		default:
			var res interface{}
			txt, err := jsoniter.Marshal(v)
			if err != nil {
				color.Red(err.Error())
				continue
			}

			jsoniter.Unmarshal(txt, &res)
			bytes, _ := f.Marshal(res)
			fmt.Println(string(bytes))
		}
	}
}

// ToString returns a formatted string representation of the given variables, one per line
func ToString(values ...interface{}) string {
	f := colorjson.NewFormatter()
	f.Indent = 4
	f.RawStrings = true
	f.DisabledColor = true

	lines := []string{}
	for _, v := range values {
		if err, ok := v.(error); ok {
			lines = append(lines, err.Error())
			continue
		}

		switch v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
			lines = append(lines, fmt.Sprintf("%v", v))
			continue

		case string, []byte:
			lines = append(lines, fmt.Sprintf("%s", v))
			continue

		default:
			var res interface{}
			txt, err := jsoniter.Marshal(v)
			if err != nil {
				lines = append(lines, err.Error())
				continue
			}

			jsoniter.Unmarshal(txt, &res)
			bytes, _ := f.Marshal(res)
			lines = append(lines, string(bytes))
		}
	}

	return strings.Join(lines, "\n")
}

// DumpError dumps the given variables in red color
func DumpError(values ...interface{}) {
	color.Red(ToString(values...))
}

// DumpWarn dumps the given variables in yellow color
func DumpWarn(values ...interface{}) {
	color.Yellow(ToString(values...))
}

// DumpInfo dumps the given variables in blue color
func DumpInfo(values ...interface{}) {
	color.Blue(ToString(values...))
}
