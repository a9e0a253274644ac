package assessments

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateSKU produces a per-item stock keeping unit combining a UTC
// timestamp with a random suffix, so multiple files assessed in the same
// batch (or the same millisecond) never collide in storage.
func GenerateSKU() string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("LPT-%s-%s", time.Now().UTC().Format("20060102-150405"), suffix)
}
