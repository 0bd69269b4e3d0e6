package model

// MasterOptions carries the configuration lookup tables returned by the
// MASTER sheet instead of rows: dropdown sources and per-firm metadata the
// dashboard screens render against.
type MasterOptions struct {
	Vendors       []string            `json:"vendors"`
	Departments   []string            `json:"departments"`
	UOMs          []string            `json:"uoms"`
	GroupHeads    map[string][]string `json:"groupHeads"`
	FirmAddresses map[string]string   `json:"firmAddresses"`
}

// MasterOptionsFrom decodes the loosely typed options block from the
// endpoint. Unknown keys are ignored; malformed entries are skipped rather
// than failing the whole refresh.
func MasterOptionsFrom(raw map[string]any) MasterOptions {
	opts := MasterOptions{
		GroupHeads:    make(map[string][]string),
		FirmAddresses: make(map[string]string),
	}
	if raw == nil {
		return opts
	}

	opts.Vendors = stringList(raw["vendors"])
	opts.Departments = stringList(raw["departments"])
	opts.UOMs = stringList(raw["uoms"])

	if groups, ok := raw["groupHeads"].(map[string]any); ok {
		for head, items := range groups {
			if list := stringList(items); len(list) > 0 {
				opts.GroupHeads[head] = list
			}
		}
	}
	if addrs, ok := raw["firmAddresses"].(map[string]any); ok {
		for firm, addr := range addrs {
			if s := CoerceString(addr); s != "" {
				opts.FirmAddresses[firm] = s
			}
		}
	}
	return opts
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := CoerceString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
