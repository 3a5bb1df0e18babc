package catalog

import (
	"sort"

	"github.com/google/uuid"
)

// MemorySource is an in-memory Source. It backs unit tests and ad-hoc
// catalogs assembled without a database.
type MemorySource struct {
	Versions          []*PricingVersion
	ProductList       []*Product
	SKUList           []*SetupSKU
	ModuleList        []*ApplicationModule
	IntegrationList   []*IntegrationType
	KnownList         []*KnownIntegration
	TravelZoneList    []*TravelZone
	PricingRuleList   []*PricingRule
	VersionAssignment map[uuid.UUID]uuid.UUID // entity ID -> version ID; empty means "all versions"
}

// versionOf returns the version an entity is assigned to, or uuid.Nil for
// version-agnostic fixtures.
func (m *MemorySource) versionOf(entityID uuid.UUID) uuid.UUID {
	if m.VersionAssignment == nil {
		return uuid.Nil
	}
	return m.VersionAssignment[entityID]
}

func (m *MemorySource) inVersion(entityID, versionID uuid.UUID) bool {
	assigned := m.versionOf(entityID)
	return assigned == uuid.Nil || assigned == versionID
}

// CurrentVersionID returns the version flagged current.
func (m *MemorySource) CurrentVersionID() (uuid.UUID, error) {
	for _, v := range m.Versions {
		if v.IsCurrent {
			return v.ID, nil
		}
	}
	return uuid.Nil, ErrNoCurrentVersion
}

// ProductByCode returns the active product with the given code, or nil.
func (m *MemorySource) ProductByCode(versionID uuid.UUID, code string) (*Product, error) {
	for _, p := range m.ProductList {
		if p.ProductCode == code && p.IsActive && m.inVersion(p.ID, versionID) {
			return p, nil
		}
	}
	return nil, nil
}

// Products returns all active products in sort order.
func (m *MemorySource) Products(versionID uuid.UUID) ([]*Product, error) {
	var out []*Product
	for _, p := range m.ProductList {
		if p.IsActive && m.inVersion(p.ID, versionID) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

// SKUByCode returns the active SKU with the given code, or nil.
func (m *MemorySource) SKUByCode(versionID uuid.UUID, code string) (*SetupSKU, error) {
	for _, s := range m.SKUList {
		if s.SKUCode == code && s.IsActive && m.inVersion(s.ID, versionID) {
			return s, nil
		}
	}
	return nil, nil
}

// ApplicationModules returns all active modules in sort order.
func (m *MemorySource) ApplicationModules(versionID uuid.UUID) ([]*ApplicationModule, error) {
	var out []*ApplicationModule
	for _, mod := range m.ModuleList {
		if mod.IsActive && m.inVersion(mod.ID, versionID) {
			out = append(out, mod)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

// IntegrationTypeByCode returns the active integration type with the given
// code, or nil.
func (m *MemorySource) IntegrationTypeByCode(versionID uuid.UUID, code string) (*IntegrationType, error) {
	for _, it := range m.IntegrationList {
		if it.TypeCode == code && it.IsActive && m.inVersion(it.ID, versionID) {
			return it, nil
		}
	}
	return nil, nil
}

// IntegrationTypes returns all active integration types in sort order.
func (m *MemorySource) IntegrationTypes(versionID uuid.UUID) ([]*IntegrationType, error) {
	var out []*IntegrationType
	for _, it := range m.IntegrationList {
		if it.IsActive && m.inVersion(it.ID, versionID) {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

// KnownIntegrationByName returns the registry entry for a system name, or nil.
func (m *MemorySource) KnownIntegrationByName(systemName string) (*KnownIntegration, error) {
	for _, k := range m.KnownList {
		if k.SystemName == systemName && k.IsActive {
			return k, nil
		}
	}
	return nil, nil
}

// KnownIntegrations returns all active registry entries.
func (m *MemorySource) KnownIntegrations() ([]*KnownIntegration, error) {
	var out []*KnownIntegration
	for _, k := range m.KnownList {
		if k.IsActive {
			out = append(out, k)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SystemName < out[j].SystemName })
	return out, nil
}

// TravelZoneByID returns the travel zone with the given id, or nil.
func (m *MemorySource) TravelZoneByID(versionID, zoneID uuid.UUID) (*TravelZone, error) {
	for _, z := range m.TravelZoneList {
		if z.ID == zoneID && m.inVersion(z.ID, versionID) {
			return z, nil
		}
	}
	return nil, nil
}

// PricingRuleByCode returns the active rule with the given code, or nil.
func (m *MemorySource) PricingRuleByCode(versionID uuid.UUID, code string) (*PricingRule, error) {
	for _, r := range m.PricingRuleList {
		if r.RuleCode == code && r.IsActive && m.inVersion(r.ID, versionID) {
			return r, nil
		}
	}
	return nil, nil
}
