package linking

import "strings"

// skuSeparators are the characters marketplaces commonly add or drop
// when re-spelling a SKU.
const skuSeparators = "-_"

// SKUVariations generates plausible alternate spellings of a SKU for probing
// a marketplace: the uppercased/trimmed original, a separator-free version,
// and, for separator-free SKUs of at least six characters, versions with a
// dash or underscore inserted after the third character. The result is
// deduplicated and preserves generation order.
func SKUVariations(base string) []string {
	sku := strings.ToUpper(strings.TrimSpace(base))
	if sku == "" {
		return nil
	}

	variations := []string{sku}

	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(skuSeparators, r) {
			return -1
		}
		return r
	}, sku)
	if cleaned != sku {
		variations = append(variations, cleaned)
	}

	if len(cleaned) >= 6 && !strings.ContainsAny(sku, skuSeparators) {
		variations = append(variations,
			cleaned[:3]+"-"+cleaned[3:],
			cleaned[:3]+"_"+cleaned[3:],
		)
	}

	return dedupe(variations)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
