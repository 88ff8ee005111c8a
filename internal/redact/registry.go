package redact

import "sort"

// PrivateRegistry maps category names to sets of exact literal strings to
// redact (company names, project codenames, internal systems, and so on).
// Matching is case-sensitive exact-substring; a deliberately simple
// policy, not fuzzy.
//
// Add and Remove are not designed for concurrent-writer safety. Callers
// serialize edits, typically performed once at startup.
type PrivateRegistry struct {
	categories map[string]map[string]struct{}
}

// NewPrivateRegistry creates an empty private registry.
func NewPrivateRegistry() *PrivateRegistry {
	return &PrivateRegistry{
		categories: make(map[string]map[string]struct{}),
	}
}

// DefaultPrivateRegistry returns the built-in private-knowledge registry.
func DefaultPrivateRegistry() *PrivateRegistry {
	r := NewPrivateRegistry()
	seed := map[string][]string{
		"company_names": {
			"Acme Corporation",
			"TechStart Inc",
			"Global Industries Ltd",
			"SecureData Systems",
		},
		"project_codenames": {
			"Project Phoenix",
			"Operation Nightfall",
			"Initiative Alpha",
			"Codename Titan",
		},
		"internal_systems": {
			"InternalDB-PROD",
			"Legacy-System-2019",
			"CRM-Internal",
			"HR-Portal-v2",
		},
		"employee_names": {
			"John Smith",
			"Jane Doe",
			"Robert Johnson",
			"Emily Davis",
		},
		"locations": {
			"Building 7, Floor 3",
			"Research Lab A",
			"Data Center Alpha",
			"HQ Conference Room 401",
		},
		"proprietary_terms": {
			"QuantumSync Algorithm",
			"NeuralMesh Technology",
			"HyperScale Protocol",
			"SecureVault Encryption",
		},
		"internal_urls": {
			"internal.company.com",
			"intranet.corp.local",
			"vpn.internal.net",
			"admin.private.local",
		},
		"database_names": {
			"customers_db",
			"financial_records",
			"employee_data",
			"audit_logs",
		},
	}
	for category, values := range seed {
		r.Add(category, values)
	}
	return r
}

// Add inserts values into a category, creating the category on first use.
func (r *PrivateRegistry) Add(category string, values []string) {
	set, ok := r.categories[category]
	if !ok {
		set = make(map[string]struct{})
		r.categories[category] = set
	}
	for _, v := range values {
		set[v] = struct{}{}
	}
}

// Remove deletes values from a category. Absent categories or values are
// a no-op.
func (r *PrivateRegistry) Remove(category string, values []string) {
	set, ok := r.categories[category]
	if !ok {
		return
	}
	for _, v := range values {
		delete(set, v)
	}
}

// Categories returns category names, sorted for deterministic pass order.
func (r *PrivateRegistry) Categories() []string {
	names := make([]string, 0, len(r.categories))
	for name := range r.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Values returns a category's literal values, sorted.
func (r *PrivateRegistry) Values(category string) []string {
	set, ok := r.categories[category]
	if !ok {
		return nil
	}
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
