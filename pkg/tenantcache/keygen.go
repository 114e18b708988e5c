package tenantcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/facilitykit/pkg/tenant"
)

// KeyVersion tags the serialization scheme baked into generated keys. Bump it
// whenever the canonical argument representation changes so stale entries
// from the previous scheme become unreachable instead of wrongly shared.
const KeyVersion = "v1"

// maxArgsLength caps the literal argument section of a key. Longer argument
// lists are replaced by a content digest, which keeps keys bounded for
// externally backed caches while staying deterministic across restarts.
const maxArgsLength = 128

// ErrUnsupportedKeyArg is returned for argument types with no canonical
// serialization (channels, functions).
var ErrUnsupportedKeyArg = errors.New("unsupported cache key argument type")

// KeyFormatter lets composite argument types define their own canonical,
// versioned cache-key form. Implementations must derive the string from field
// values only: identity-based representations (pointer addresses, identity
// hashes) are not stable across process restarts and would corrupt an
// externally backed cache.
type KeyFormatter interface {
	CacheKey() string
}

// KeyGenerator builds deterministic tenant-scoped keys for memoized
// operations: "tenant:<id>:<operation>:<version>:<canonical-args>".
//
// Determinism contract: the same tenant with the same logical arguments
// always yields the same key, across processes and restarts; a different
// tenant with identical arguments always yields a different key.
type KeyGenerator struct {
	version string
}

// NewKeyGenerator creates a generator using the current KeyVersion.
func NewKeyGenerator() *KeyGenerator {
	return &KeyGenerator{version: KeyVersion}
}

// Key builds the cache key for one memoized operation invocation.
// The operation string is the stable identity of the cacheable operation,
// conventionally "<type>.<method>" (e.g. "workorders.GetByID").
func (g *KeyGenerator) Key(ctx context.Context, operation string, args ...any) (string, error) {
	id, err := tenant.Require(ctx)
	if err != nil {
		return "", err
	}
	if operation == "" {
		return "", errors.New("cache key operation cannot be empty")
	}

	serialized := make([]string, len(args))
	for i, arg := range args {
		s, err := formatArg(arg)
		if err != nil {
			return "", fmt.Errorf("argument %d: %w", i, err)
		}
		serialized[i] = s
	}

	argsPart := strings.Join(serialized, ",")
	if len(argsPart) > maxArgsLength {
		sum := sha256.Sum256([]byte(argsPart))
		argsPart = "sha256:" + hex.EncodeToString(sum[:])
	}

	return Namespace(id) + operation + ":" + g.version + ":" + argsPart, nil
}

// formatArg renders one argument in canonical string form.
func formatArg(arg any) (string, error) {
	switch v := arg.(type) {
	case nil:
		return "nil", nil
	case string:
		return quoteIfNeeded(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case []byte:
		return hex.EncodeToString(v), nil
	case uuid.UUID:
		return v.String(), nil
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano), nil
	case tenant.ID:
		return v.String(), nil
	case KeyFormatter:
		return v.CacheKey(), nil
	case fmt.Stringer:
		return quoteIfNeeded(v.String()), nil
	default:
		// Field-based JSON is the canonical fallback for composites: Go
		// serializes map keys sorted and struct fields in declaration order,
		// both stable across restarts.
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("%w: %T", ErrUnsupportedKeyArg, arg)
		}
		return string(data), nil
	}
}

// quoteIfNeeded escapes strings containing key separators so distinct
// argument lists cannot collapse into the same key.
func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, ":, \t\n\"") {
		return strconv.Quote(s)
	}
	return s
}
