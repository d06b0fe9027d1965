package systems

// SystemInfo describes one phase of the arena tick for UI display.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this system does
	Category    string // Grouping (e.g., "ai", "physics")
}

// SystemRegistry holds metadata about the tick phases in run order.
// The IDs match the perf collector's phase names.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all tick phases.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds the tick phases. Update this when adding a phase.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: "player", Name: "Player", Description: "Manual steering or patrol", Category: "ai"})
	r.Register(SystemInfo{ID: "chase", Name: "Chase", Description: "Enemy repathing and steering", Category: "ai"})
	r.Register(SystemInfo{ID: "physics", Name: "Physics", Description: "Steps the collision space", Category: "physics"})
	r.Register(SystemInfo{ID: "sync", Name: "Sync", Description: "Copies bodies back to positions", Category: "physics"})
	r.Register(SystemInfo{ID: "telemetry", Name: "Telemetry", Description: "Flushes query windows", Category: "internal"})
}

// Register adds a system to the registry. A repeated ID replaces the
// earlier entry in place.
func (r *SystemRegistry) Register(info SystemInfo) {
	if _, ok := r.byID[info.ID]; ok {
		for i := range r.systems {
			if r.systems[i].ID == info.ID {
				r.systems[i] = info
			}
		}
	} else {
		r.systems = append(r.systems, info)
	}
	r.byID[info.ID] = info
}

// Get returns system info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a system ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered systems in tick order.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// ByCategory returns systems filtered by category.
func (r *SystemRegistry) ByCategory(category string) []SystemInfo {
	var result []SystemInfo
	for _, info := range r.systems {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

// IDs returns all system IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
