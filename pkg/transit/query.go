package transit

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Param is one flattened query string entry.
type Param struct {
	Key   string
	Value string
}

// Query is an ordered list of query string entries with unique keys.
type Query struct {
	params []Param
}

// Add appends an entry. Uniqueness is checked by QueryBuilder.Build.
func (q *Query) Add(key, value string) {
	q.params = append(q.params, Param{Key: key, Value: value})
}

// Get returns the value stored under key.
func (q Query) Get(key string) (string, bool) {
	for _, p := range q.params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Params returns a copy of the entries in order.
func (q Query) Params() []Param {
	out := make([]Param, len(q.params))
	copy(out, q.params)
	return out
}

func (q Query) Len() int { return len(q.params) }

// Encode renders the query in order, percent-encoding keys and values.
func (q Query) Encode() string {
	var sb strings.Builder
	for i, p := range q.params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}

// Params is the loosely typed form callers pass extra query options in.
// Values may be strings, booleans, numbers, time.Time, time.Duration,
// []string, Locations or nested maps.
type Params map[string]any

// QueryBuilder flattens Params into a Query.
type QueryBuilder struct {
	Encoding TimeEncoding
	Strict   bool
}

// Build converts params into a Query. The identifier entry, if any, is
// removed from the query and returned separately so it can be sent as a
// header.
func (b QueryBuilder) Build(params Params) (Query, string, error) {
	var q Query
	var identifier string

	for _, key := range sortedKeys(params) {
		value := params[key]
		switch key {
		case "identifier":
			if value == nil {
				continue
			}
			s, ok := value.(string)
			if !ok {
				return Query{}, "", invalidArg(key, "must be a string, got %T", value)
			}
			identifier = s
			continue
		case "products":
			if products, ok := value.(map[string]bool); ok {
				for _, p := range sortedKeys(products) {
					q.Add(p, strconv.FormatBool(products[p]))
				}
				continue
			}
		}
		if err := b.add(&q, key, value); err != nil {
			return Query{}, "", err
		}
	}

	seen := make(map[string]bool, len(q.params))
	for _, p := range q.params {
		if seen[p.Key] {
			return Query{}, "", invalidArg(p.Key, "query key set twice")
		}
		seen[p.Key] = true
	}

	return q, identifier, nil
}

func (b QueryBuilder) add(q *Query, key string, value any) error {
	if key == "" {
		return invalidArg(key, "empty query key")
	}

	switch v := value.(type) {
	case nil:
	case Location:
		return expandLocation(q, key, v, b.Strict)
	case string:
		q.Add(key, v)
	case bool:
		q.Add(key, strconv.FormatBool(v))
	case int:
		q.Add(key, strconv.Itoa(v))
	case int64:
		q.Add(key, strconv.FormatInt(v, 10))
	case int32:
		q.Add(key, strconv.FormatInt(int64(v), 10))
	case uint:
		q.Add(key, strconv.FormatUint(uint64(v), 10))
	case uint64:
		q.Add(key, strconv.FormatUint(v, 10))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalidArg(key, "must be finite")
		}
		q.Add(key, strconv.FormatFloat(v, 'f', -1, 64))
	case float32:
		return b.add(q, key, float64(v))
	case json.Number:
		q.Add(key, v.String())
	case time.Time:
		if v.IsZero() {
			return nil
		}
		q.Add(key, fmt.Sprint(b.Encoding.Encode(v)))
	case *time.Time:
		if v == nil {
			return nil
		}
		return b.add(q, key, *v)
	case time.Duration:
		q.Add(key, strconv.FormatInt(int64(v/time.Minute), 10))
	case []string:
		q.Add(key, strings.Join(v, ","))
	case map[string]bool:
		for _, k := range sortedKeys(v) {
			q.Add(key+"."+k, strconv.FormatBool(v[k]))
		}
	case map[string]string:
		for _, k := range sortedKeys(v) {
			q.Add(key+"."+k, v[k])
		}
	case Params:
		return b.addNested(q, key, v)
	case map[string]any:
		return b.addNested(q, key, v)
	default:
		return invalidArg(key, "unsupported value type %T", value)
	}
	return nil
}

func (b QueryBuilder) addNested(q *Query, prefix string, m map[string]any) error {
	for _, k := range sortedKeys(m) {
		if err := b.add(q, prefix+"."+k, m[k]); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
