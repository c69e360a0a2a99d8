package registry

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/moti-registry/internal/model"
)

// Default reference id settings.
const (
	DefaultPrefix = "MOTI-SME"
	DefaultOffset = 1001
)

// IDGenerator produces the reference id for the next record of a table.
type IDGenerator interface {
	NextID(table model.Table) string
}

// SequentialIDs numbers records PREFIX-<row count + Offset>. When rows have
// been deleted or renumbered by hand the number is raised past the highest
// suffix still in the table, so an id is never handed out twice.
type SequentialIDs struct {
	Prefix string
	Offset int
}

// NextID implements IDGenerator.
func (g SequentialIDs) NextID(table model.Table) string {
	next := len(table) + g.Offset
	for _, rec := range table {
		if n, ok := refSuffix(rec.RefID, g.Prefix); ok && n >= next {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s-%d", g.Prefix, next)
}

// RandomIDs builds ids from the current date and a random suffix,
// PREFIX-YYYYMMDD-xxxxxx, for registers shared by concurrent writers.
type RandomIDs struct {
	Now    func() time.Time
	Prefix string
}

// NextID implements IDGenerator.
func (g RandomIDs) NextID(table model.Table) string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}

	taken := make(map[string]struct{}, len(table))
	for _, rec := range table {
		taken[rec.RefID] = struct{}{}
	}

	day := now().Format("20060102")
	for {
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
		id := fmt.Sprintf("%s-%s-%s", g.Prefix, day, suffix)
		if _, dup := taken[id]; !dup {
			return id
		}
	}
}

// NewIDGenerator returns the generator for a configured strategy name
// ("sequential" or "random").
func NewIDGenerator(strategy, prefix string, offset int) (IDGenerator, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	switch strings.ToLower(strategy) {
	case "", "sequential":
		return SequentialIDs{Prefix: prefix, Offset: offset}, nil
	case "random":
		return RandomIDs{Prefix: prefix}, nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", strategy)
	}
}
