package assessment

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Answers is one section's answers keyed by zero-based question index.
// Unanswered questions are absent.
type Answers map[int]string

// Entry is a single (index, value) pair.
type Entry struct {
	Index int
	Value string
}

// Entries returns the answers ordered by index.
func (a Answers) Entries() []Entry {
	out := make([]Entry, 0, len(a))
	for idx, v := range a {
		out = append(out, Entry{Index: idx, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// ParseQuestionKey converts "q3" (or "3") to index 2. Keys that do not
// resolve to a non-negative index are rejected.
func ParseQuestionKey(key string) (int, bool) {
	k := strings.TrimSpace(key)
	if len(k) > 0 && (k[0] == 'q' || k[0] == 'Q') {
		k = k[1:]
	}
	n, err := strconv.Atoi(k)
	if err != nil {
		return 0, false
	}
	idx := n - 1
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

// NormalizeAnswers canonicalizes a q-keyed answer map. When several raw keys
// collapse onto the same index ("q1", "q01", "1") the lexically greatest raw
// key wins, so the result never depends on map iteration order.
func NormalizeAnswers(raw map[string]string) Answers {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Answers, len(raw))
	for _, k := range keys {
		idx, ok := ParseQuestionKey(k)
		if !ok {
			continue
		}
		v := strings.TrimSpace(raw[k])
		if v == "" {
			continue
		}
		out[idx] = v
	}
	return out
}

// NormalizeAny accepts the loosely typed shapes answers arrive in after JSON
// decoding: objects keyed by "qN"/"N", arrays indexed from zero, and scalar
// values that are not strings. Anything else yields an empty set.
func NormalizeAny(raw interface{}) Answers {
	switch v := raw.(type) {
	case nil:
		return Answers{}
	case Answers:
		out := make(Answers, len(v))
		for k, val := range v {
			if k >= 0 && strings.TrimSpace(val) != "" {
				out[k] = strings.TrimSpace(val)
			}
		}
		return out
	case map[string]string:
		return NormalizeAnswers(v)
	case map[string]interface{}:
		flat := make(map[string]string, len(v))
		for k, val := range v {
			if s, ok := scalarString(val); ok {
				flat[k] = s
			}
		}
		return NormalizeAnswers(flat)
	case []string:
		out := make(Answers, len(v))
		for i, s := range v {
			if s = strings.TrimSpace(s); s != "" {
				out[i] = s
			}
		}
		return out
	case []interface{}:
		out := make(Answers, len(v))
		for i, val := range v {
			if s, ok := scalarString(val); ok {
				if s = strings.TrimSpace(s); s != "" {
					out[i] = s
				}
			}
		}
		return out
	default:
		return Answers{}
	}
}

func scalarString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		if t {
			return "Yes", true
		}
		return "No", true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case fmt.Stringer:
		return t.String(), true
	default:
		return "", false
	}
}
