package inspector

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stringify renders a document value as text. It is the single encoding used for result
// tables:
//
//	nil, BSON null/undefined   "null"
//	string                      the string itself
//	bool                        "true" / "false"
//	integers                    base 10
//	floats                      shortest representation, 'g' format
//	time.Time, DateTime         RFC 3339 with nanoseconds, UTC
//	ObjectID                    hex
//	[]byte, Binary              standard base64
//	documents and arrays        compact JSON, keys sorted, members rendered by these rules
//	anything else               fmt.Sprint
func Stringify(v interface{}) string {
	switch t := v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.FormatInt(int64(t), 10)
	case int8:
		return strconv.FormatInt(int64(t), 10)
	case int16:
		return strconv.FormatInt(int64(t), 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint8:
		return strconv.FormatUint(uint64(t), 10)
	case uint16:
		return strconv.FormatUint(uint64(t), 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339Nano)
	case primitive.ObjectID:
		return t.Hex()
	case []byte:
		return base64.StdEncoding.EncodeToString(t)
	case primitive.Binary:
		return base64.StdEncoding.EncodeToString(t.Data)
	case bson.D, bson.M, bson.A, map[string]interface{}, []interface{}:
		return compactJSON(normalize(t))
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map {
			return compactJSON(normalize(v))
		}
		return fmt.Sprint(v)
	}
}

// PrettyJSON renders fields as JSON indented by four spaces, keys sorted.
func PrettyJSON(fields map[string]string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(fields); err != nil {
		return fmt.Sprint(fields)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

// normalize converts v into plain maps, slices and JSON-safe scalars.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return nil
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return t
	case float32:
		return normalizeFloat(float64(t), Stringify(t))
	case float64:
		return normalizeFloat(t, Stringify(t))
	case bson.D:
		m := make(map[string]interface{}, len(t))
		for _, e := range t {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case bson.M:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[k] = normalize(val)
		}
		return m
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[k] = normalize(val)
		}
		return m
	case bson.A:
		return normalizeSlice([]interface{}(t))
	case []interface{}:
		return normalizeSlice(t)
	case time.Time, primitive.DateTime, primitive.ObjectID, primitive.Binary, []byte:
		return Stringify(t)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]interface{}, rv.Len())
		for i := range out {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		m := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[fmt.Sprint(iter.Key().Interface())] = normalize(iter.Value().Interface())
		}
		return m
	}
	return Stringify(v)
}

func normalizeSlice(in []interface{}) []interface{} {
	out := make([]interface{}, len(in))
	for i, val := range in {
		out[i] = normalize(val)
	}
	return out
}

// JSON has no NaN or infinities; those are kept as their text.
func normalizeFloat(f float64, text string) interface{} {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return text
	}
	return f
}

func compactJSON(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
