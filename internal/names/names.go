// Package names derives stable identifiers and JUnit method names for
// build configs.
package names

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/phobologic/guardgen/internal/guard"
)

// namespace seeds every config ID so IDs are reproducible across runs.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/phobologic/guardgen"))

// ConfigID returns a name-based (SHA-1) UUID for cfg in the callable
// identified by file and its qualified signature.
func ConfigID(file, signature string, cfg guard.BuildConfig) uuid.UUID {
	key := fmt.Sprintf("%s\x00%s\x00%d\x00%s\x00%s", file, signature, cfg.ParamIndex, cfg.FailureKind, cfg.Value)
	return uuid.NewSHA1(namespace, []byte(key))
}

// TestName builds a JUnit method name of the form
// test_<6 hex>_<callable>_pass<Null|Value>As_<param>_<initials>.
func TestName(id uuid.UUID, callable string, cfg guard.BuildConfig) string {
	passed := "Value"
	if cfg.Value.IsNull() {
		passed = "Null"
	}
	hex := strings.ReplaceAll(id.String(), "-", "")[:6]
	return fmt.Sprintf("test_%s_%s_pass%sAs_%s_%s", hex, callable, passed, cfg.Param, Initials(cfg.FailureKind))
}

// Initials abbreviates an exception type by its capital letters:
// java.lang.IllegalArgumentException becomes IAE.
func Initials(kind string) string {
	if i := strings.LastIndexByte(kind, '.'); i >= 0 {
		kind = kind[i+1:]
	}
	var b strings.Builder
	for _, r := range kind {
		if unicode.IsUpper(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 && kind != "" {
		return strings.ToUpper(kind[:1])
	}
	return b.String()
}
