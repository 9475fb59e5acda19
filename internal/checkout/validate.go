package checkout

import (
	"strings"
	"unicode"

	"github.com/pratomobowo/pasarantar-sub000/pkg/enums"
)

const (
	fieldName        = "name"
	fieldWhatsapp    = "whatsapp"
	fieldAddress     = "address"
	fieldDeliveryDay = "deliveryDay"
)

// normalizeWhatsapp strips separators and validates the Indonesian
// mobile format: "08" followed by 9 to 12 further digits.
func normalizeWhatsapp(raw string) (string, bool) {
	var digits strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	normalized := digits.String()

	if !strings.HasPrefix(normalized, "08") {
		return "", false
	}
	rest := len(normalized) - 2
	if rest < 9 || rest > 12 {
		return "", false
	}
	return normalized, true
}

// validateDraft returns one message per offending field. An empty map
// means the draft is submittable.
func validateDraft(draft *Draft) map[string]string {
	fieldErrors := map[string]string{}

	if strings.TrimSpace(draft.Name) == "" {
		fieldErrors[fieldName] = "Nama wajib diisi."
	}
	if _, ok := normalizeWhatsapp(draft.Whatsapp); !ok {
		fieldErrors[fieldWhatsapp] = "Nomor WhatsApp tidak valid."
	}
	if strings.TrimSpace(draft.Address) == "" {
		fieldErrors[fieldAddress] = "Alamat wajib diisi."
	}
	if draft.ShippingMethod == enums.ShippingMethodExpress {
		if draft.DeliveryDay == nil || !draft.DeliveryDay.IsValid() {
			fieldErrors[fieldDeliveryDay] = "Pilih hari pengiriman."
		}
	}

	return fieldErrors
}
