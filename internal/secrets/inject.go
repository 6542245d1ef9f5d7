package secrets

import (
	"bytes"
	"context"
	"sort"
	"strings"

	logger "github.com/devforge/devforge/internal/logging"
)

var envEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
)

// Injector materializes the store as a plaintext env file for processes
// that read NAME="value" lines.
type Injector struct {
	store *Store
	log   logger.Logger
}

func NewInjector(store *Store, log logger.Logger) *Injector {
	return &Injector{store: store, log: log}
}

// Inject decrypts every entry and writes targetPath atomically with 0600.
// Nothing is written unless every entry decrypts.
func (i *Injector) Inject(ctx context.Context, targetPath string) (int, error) {
	all, err := i.store.DecryptAll()
	if err != nil {
		return 0, err
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if err := WriteFileAtomic(targetPath, FormatEnv(all), 0600); err != nil {
		return 0, err
	}

	i.log.Infof("Wrote %d secrets to %s", len(all), targetPath)
	return len(all), nil
}

// FormatEnv renders secrets as NAME="value" lines sorted by name.
func FormatEnv(all []Secret) []byte {
	sorted := make([]Secret, len(all))
	copy(sorted, all)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].Name < sorted[b].Name })

	var buf bytes.Buffer
	for _, s := range sorted {
		buf.WriteString(s.Name)
		buf.WriteString(`="`)
		buf.WriteString(envEscaper.Replace(string(s.Value)))
		buf.WriteString("\"\n")
	}
	return buf.Bytes()
}
