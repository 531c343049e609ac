package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"
)

// NormalizeAndSanitizeJSON
// - Renames known synonyms (delivery_address -> shipping_address)
// - Fills shipping_address from buyer when the model only answered buyer
// - Coerces numeric -> string for money and quantity fields
// - Drops null/empty optionals and unknown keys
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 8)
	renamed := func(from, to string) {
		if v, ok := m[from]; ok {
			// don't overwrite an existing value if already present
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}

	// 1) rename synonyms to our schema
	renamed("delivery_address", "shipping_address")
	renamed("ship_to", "shipping_address")
	renamed("delivery_date", "date")
	renamed("total", "total_price")
	renamed("grand_total", "total_price")
	renamed("items", "products")

	// 2) buyer doubles as the address when the model answered only buyer
	if _, ok := m["shipping_address"]; !ok {
		if v, ok := m["buyer"].(string); ok && strings.TrimSpace(v) != "" {
			m["shipping_address"] = v
			dropped = append(dropped, "buyer->shipping_address")
		}
	}

	// 3) coerce top-level money field
	coerceString(m, "total_price", &dropped)

	// 4) products: keep only object entries, coerce their fields to strings
	if v, ok := m["products"]; ok {
		arr, ok := v.([]any)
		if !ok {
			delete(m, "products")
			dropped = append(dropped, "products(type)")
		} else {
			kept := make([]any, 0, len(arr))
			for i, el := range arr {
				p, ok := el.(map[string]any)
				if !ok {
					dropped = append(dropped, fmt.Sprintf("products[%d](type)", i))
					continue
				}
				for k := range maps.Clone(p) {
					if k != "description" && k != "quantity" && k != "price" {
						delete(p, k)
					}
				}
				coerceString(p, "quantity", &dropped)
				coerceString(p, "price", &dropped)
				if s, ok := p["description"].(string); !ok || strings.TrimSpace(s) == "" {
					dropped = append(dropped, fmt.Sprintf("products[%d](no description)", i))
					continue
				}
				kept = append(kept, p)
			}
			m["products"] = kept
		}
	}

	// 5) drop null / "" optionals, trim the rest
	for _, k := range []string{"shipping_address", "buyer", "date", "sender"} {
		switch v := m[k].(type) {
		case nil:
			if _, present := m[k]; present {
				delete(m, k)
				dropped = append(dropped, k+"(null)")
			}
		case string:
			s := strings.TrimSpace(v)
			if s == "" && (k == "buyer" || k == "sender") {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		}
	}

	// 6) remove unknown keys
	allowed := map[string]struct{}{
		"shipping_address": {}, "buyer": {}, "date": {}, "sender": {},
		"products": {}, "total_price": {},
	}
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}

// coerceString rewrites a numeric value under key k as its string form. Null
// and unexpected types are dropped so the schema can still pass.
func coerceString(m map[string]any, k string, dropped *[]string) {
	v, ok := m[k]
	if !ok {
		return
	}
	switch t := v.(type) {
	case float64:
		if t == float64(int64(t)) {
			m[k] = fmt.Sprintf("%d", int64(t))
		} else {
			m[k] = fmt.Sprintf("%.2f", t)
		}
	case string:
		m[k] = strings.TrimSpace(t)
	case nil:
		delete(m, k)
		*dropped = append(*dropped, k+"(null)")
	default:
		delete(m, k)
		*dropped = append(*dropped, k+"(type)")
	}
}
