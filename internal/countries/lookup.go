package countries

import (
	"strings"
	"sync"

	"github.com/mmcdole/globe/internal/domain"
)

// NameLookup resolves cca3 codes to country names from the cached list.
// Hits are memoized; misses are retried on the next call.
type NameLookup struct {
	source func() []*domain.Country

	mu    sync.Mutex
	names map[string]string
}

// NewNameLookup creates a lookup over source, which returns the current
// cached list (possibly nil).
func NewNameLookup(source func() []*domain.Country) *NameLookup {
	return &NameLookup{source: source, names: make(map[string]string)}
}

// ServiceSource reads the list cached by svc for fields
func ServiceSource(svc *Service, fields []string) func() []*domain.Country {
	return func() []*domain.Country {
		countries, _ := svc.GetData(fields)
		return countries
	}
}

// NameByCode returns the name for code, ignoring case and surrounding space.
func (l *NameLookup) NameByCode(code string) (string, bool) {
	key := strings.ToUpper(strings.TrimSpace(code))
	if key == "" {
		return "", false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if name, ok := l.names[key]; ok {
		return name, true
	}

	for _, c := range l.source() {
		if c != nil && strings.ToUpper(c.ID) == key && c.Name != "" {
			l.names[key] = c.Name
			return c.Name, true
		}
	}
	return "", false
}
