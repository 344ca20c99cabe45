package create_booking

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// fingerprint отпечаток логического запроса для сверки повторов с тем же ключом идемпотентности
func fingerprint(req *Request) string {
	parts := []string{
		strconv.FormatInt(req.TenantID, 10),
		strconv.FormatInt(req.ServiceID, 10),
		req.Date.Format(domain.DateFormat),
		req.StartTime.String(),
		string(req.Status),
		req.Customer.Name,
		deref(req.Customer.Phone),
		deref(req.Customer.Email),
		deref(req.Customer.Notes),
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:])
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
