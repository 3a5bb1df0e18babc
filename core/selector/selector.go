// Package selector walks the versioned catalog against a nested parameter
// tree and decides which billable items a quote includes: the base product,
// flat add-ons, enabled application modules and named per-system
// integrations, each with the one-time setup items it triggers.
package selector

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"quote-pricing/core/catalog"
	"quote-pricing/core/rules"
)

// ProductLine is one recurring subscription line of a configuration.
type ProductLine struct {
	ProductCode      string          `json:"product_code"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	MonthlyCost      decimal.Decimal `json:"monthly_cost"`
	Quantity         int             `json:"quantity"`
	TotalMonthlyCost decimal.Decimal `json:"total_monthly_cost"`
	Reason           string          `json:"reason"`
}

// SetupLine is one one-time professional-services line.
type SetupLine struct {
	SKUCode    string          `json:"sku_code"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Reason     string          `json:"reason"`
}

// Result is a complete configuration: every selected line plus totals and a
// presentational summary.
type Result struct {
	SelectedProducts []ProductLine   `json:"selected_products"`
	SetupSKUs        []SetupLine     `json:"setup_skus"`
	TotalMonthlyCost decimal.Decimal `json:"total_monthly_cost"`
	TotalSetupCost   decimal.Decimal `json:"total_setup_cost"`
	Summary          string          `json:"summary"`
}

// Selector configures quotes against one pricing version.
type Selector struct {
	accessor *catalog.Accessor
}

// New builds a Selector over a request-scoped accessor.
func New(accessor *catalog.Accessor) *Selector {
	return &Selector{accessor: accessor}
}

// Configure selects products and setup items for the caller's parameters.
// The walk order is fixed: base product, add-ons, modules, integrations.
// Unresolvable catalog references degrade silently; the only error is the
// accessor's no-current-pricing-version condition.
func (s *Selector) Configure(params rules.Context) (Result, error) {
	ctx := normalizeBaseProduct(params)

	result := Result{
		SelectedProducts: []ProductLine{},
		SetupSKUs:        []SetupLine{},
	}

	baseName, err := s.selectBaseProduct(ctx, &result)
	if err != nil {
		return Result{}, err
	}
	if err := s.selectAddons(ctx, &result); err != nil {
		return Result{}, err
	}
	moduleCount, err := s.selectModules(ctx, &result)
	if err != nil {
		return Result{}, err
	}
	integrationCount, err := s.selectIntegrations(ctx, &result)
	if err != nil {
		return Result{}, err
	}

	for _, p := range result.SelectedProducts {
		result.TotalMonthlyCost = result.TotalMonthlyCost.Add(p.TotalMonthlyCost)
	}
	for _, sku := range result.SetupSKUs {
		result.TotalSetupCost = result.TotalSetupCost.Add(sku.TotalPrice)
	}

	result.Summary = buildSummary(baseName, moduleCount, integrationCount,
		result.TotalMonthlyCost, result.TotalSetupCost)
	return result, nil
}

// normalizeBaseProduct lowercases the base_product choice and injects the
// default when the caller did not pick one.
func normalizeBaseProduct(params rules.Context) rules.Context {
	choice := "standard"
	if raw, ok := params.Lookup("base_product"); ok {
		if s, ok := raw.(string); ok && s != "" {
			choice = strings.ToLower(s)
		}
	}
	return params.Merge(rules.Context{"base_product": choice})
}

// selectBaseProduct picks the first base-type product whose selection rules
// match and prices it. A choice no product's rules recognize resolves to
// the standard base product. Returns the display name for the summary.
func (s *Selector) selectBaseProduct(ctx rules.Context, result *Result) (string, error) {
	products, err := s.accessor.GetAllProducts()
	if err != nil {
		return "", err
	}

	name, err := s.appendBaseProduct(products, ctx, result)
	if err != nil || name != "" {
		return name, err
	}

	if choice, _ := ctx.Lookup("base_product"); choice != "standard" {
		fallback := ctx.Merge(rules.Context{"base_product": "standard"})
		return s.appendBaseProduct(products, fallback, result)
	}
	return "", nil
}

func (s *Selector) appendBaseProduct(products []*catalog.Product, ctx rules.Context, result *Result) (string, error) {
	for _, product := range products {
		if product.ProductType != "base" || !product.SelectionRules.Matches(ctx) {
			continue
		}

		monthly := rules.EvaluateFormula(product.Formula(), ctx)
		result.SelectedProducts = append(result.SelectedProducts, ProductLine{
			ProductCode:      product.ProductCode,
			Name:             product.Name,
			Category:         product.Category,
			MonthlyCost:      monthly,
			Quantity:         1,
			TotalMonthlyCost: monthly,
			Reason:           fmt.Sprintf("Base %s product", product.Name),
		})

		if err := s.applySetupRules(product.RelatedSetupSKUs, ctx, "", result); err != nil {
			return "", err
		}
		return product.Name, nil
	}
	return "", nil
}

// selectAddons includes addon-type products whose conditions match, or, for
// quantity-priced add-ons without conditions, whose quantity parameter is
// positive.
func (s *Selector) selectAddons(ctx rules.Context, result *Result) error {
	products, err := s.accessor.GetAllProducts()
	if err != nil {
		return err
	}

	for _, product := range products {
		if product.ProductType != "addon" {
			continue
		}

		formula := product.Formula()
		quantity := 1
		include := false

		if product.SelectionRules.HasConditions() {
			include = product.SelectionRules.Matches(ctx)
		}
		if qb, ok := formula.(rules.QuantityBased); ok {
			if v, found := ctx.Float(qb.QuantityParameter); found && v > 0 {
				include = include || !product.SelectionRules.HasConditions()
				quantity = int(v)
			} else if !product.SelectionRules.HasConditions() {
				include = false
			}
		}
		if !include {
			continue
		}

		total := rules.EvaluateFormula(formula, ctx)
		unit := total
		if quantity > 1 {
			unit = total.Div(decimal.NewFromInt(int64(quantity)))
		}

		result.SelectedProducts = append(result.SelectedProducts, ProductLine{
			ProductCode:      product.ProductCode,
			Name:             product.Name,
			Category:         product.Category,
			MonthlyCost:      unit,
			Quantity:         quantity,
			TotalMonthlyCost: total,
			Reason:           fmt.Sprintf("%d %s", quantity, product.Name),
		})
	}
	return nil
}

// selectModules walks every active application module, skipping those the
// caller did not enable. A module's evaluation context nests its own
// parameters under modules.<code> on top of the caller's parameters.
func (s *Selector) selectModules(ctx rules.Context, result *Result) (int, error) {
	modules, err := s.accessor.GetAllApplicationModules()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, module := range modules {
		code := strings.ToLower(module.ModuleCode)
		moduleParams, ok := moduleParameters(ctx, code)
		if !ok {
			continue
		}
		if enabled, _ := moduleParams["enabled"].(bool); !enabled {
			continue
		}

		// Overlay this module's parameters onto the caller's modules map so
		// conditions referencing other modules still resolve.
		modulesMap := map[string]any{}
		if raw, ok := ctx.Lookup("modules"); ok {
			if existing, ok := raw.(map[string]any); ok {
				for k, v := range existing {
					modulesMap[k] = v
				}
			}
		}
		modulesMap[code] = moduleParams
		moduleCtx := ctx.Merge(rules.Context{"modules": modulesMap})

		// A dangling product code skips the monthly line but the module's
		// setup rules still run.
		if module.ProductCode != "" {
			product, err := s.accessor.GetProduct(module.ProductCode)
			if err != nil {
				return 0, err
			}
			if product != nil {
				monthly := rules.EvaluateFormula(product.Formula(), moduleCtx)
				result.SelectedProducts = append(result.SelectedProducts, ProductLine{
					ProductCode:      product.ProductCode,
					Name:             module.ModuleName,
					Category:         "Module",
					MonthlyCost:      monthly,
					Quantity:         1,
					TotalMonthlyCost: monthly,
					Reason:           fmt.Sprintf("%s module enabled", module.ModuleName),
				})
				count++
			}
		}

		if module.SelectionRules != nil {
			fallback := fmt.Sprintf("Required for %s", module.ModuleName)
			if err := s.applySetupRules(module.SelectionRules.SetupSKUs, moduleCtx, fallback, result); err != nil {
				return 0, err
			}
		}
	}
	return count, nil
}

// selectIntegrations adds one monthly interface line per named system and,
// for new systems, the mature setup item when the system is in the
// known-integrations registry or the custom one otherwise.
func (s *Selector) selectIntegrations(ctx rules.Context, result *Result) (int, error) {
	integrationTypes, err := s.accessor.GetAllIntegrationTypes()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, integrationType := range integrationTypes {
		key := "integrations." + strings.ToLower(integrationType.TypeCode)
		raw, ok := ctx.Lookup(key)
		if !ok {
			continue
		}
		systems, ok := raw.([]any)
		if !ok {
			continue
		}

		for _, entry := range systems {
			system, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			systemName, _ := system["system_name"].(string)
			if systemName == "" {
				systemName = "Unknown"
			}

			result.SelectedProducts = append(result.SelectedProducts, ProductLine{
				ProductCode:      interfaceProductCode(integrationType.TypeCode),
				Name:             fmt.Sprintf("%s: %s", integrationType.TypeName, systemName),
				Category:         "Interface",
				MonthlyCost:      integrationType.MonthlyCost,
				Quantity:         1,
				TotalMonthlyCost: integrationType.MonthlyCost,
				Reason:           fmt.Sprintf("%s for %s", integrationType.TypeName, systemName),
			})
			count++

			// Systems default to new; only existing installs skip setup.
			isNew := true
			if v, ok := system["is_new"].(bool); ok {
				isNew = v
			}
			if !isNew {
				continue
			}

			known, err := s.accessor.GetKnownIntegration(systemName)
			if err != nil {
				return 0, err
			}

			skuCode := integrationType.CustomSetupSKU
			reason := fmt.Sprintf("Custom integration development for %s", systemName)
			if known != nil {
				skuCode = integrationType.MatureSetupSKU
				reason = fmt.Sprintf("%s uses an existing interface", systemName)
			}
			if skuCode == "" {
				continue
			}

			sku, err := s.accessor.GetSKU(skuCode)
			if err != nil {
				return 0, err
			}
			if sku == nil {
				continue
			}
			result.SetupSKUs = append(result.SetupSKUs, SetupLine{
				SKUCode:    sku.SKUCode,
				Name:       sku.Name,
				Quantity:   1,
				UnitPrice:  sku.FixedPrice,
				TotalPrice: sku.FixedPrice,
				Reason:     reason,
			})
		}
	}
	return count, nil
}

// applySetupRules evaluates selection rules and appends a setup line for
// every match whose SKU resolves. Unknown SKU codes are skipped.
func (s *Selector) applySetupRules(ruleList []rules.SelectionRule, ctx rules.Context, fallbackReason string, result *Result) error {
	for _, rule := range ruleList {
		item, ok := rules.EvaluateSelectionRule(rule, ctx)
		if !ok {
			continue
		}
		sku, err := s.accessor.GetSKU(item.SKUCode)
		if err != nil {
			return err
		}
		if sku == nil {
			continue
		}

		reason := item.Reason
		if reason == "" {
			reason = fallbackReason
		}
		quantityDec := decimal.NewFromInt(int64(item.Quantity))
		result.SetupSKUs = append(result.SetupSKUs, SetupLine{
			SKUCode:    sku.SKUCode,
			Name:       sku.Name,
			Quantity:   item.Quantity,
			UnitPrice:  sku.FixedPrice,
			TotalPrice: sku.FixedPrice.Mul(quantityDec),
			Reason:     reason,
		})
	}
	return nil
}

// moduleParameters extracts the caller's parameter map for one module.
func moduleParameters(ctx rules.Context, code string) (map[string]any, bool) {
	raw, ok := ctx.Lookup("modules." + code)
	if !ok {
		return nil, false
	}
	params, ok := raw.(map[string]any)
	return params, ok
}

// interfaceProductCode derives the subscription line code for an
// integration type, e.g. PAYMENT_IMPORT becomes INTERFACE-PAYMENT-IMPORT.
func interfaceProductCode(typeCode string) string {
	return "INTERFACE-" + strings.ReplaceAll(typeCode, "_", "-")
}

// buildSummary renders the presentational one-liner: base product, counts,
// formatted totals.
func buildSummary(baseName string, moduleCount, integrationCount int, monthly, setup decimal.Decimal) string {
	if baseName == "" {
		baseName = "Quote"
	}

	parts := []string{baseName}
	if moduleCount > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", moduleCount, plural("module", moduleCount)))
	}
	if integrationCount > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", integrationCount, plural("integration", integrationCount)))
	}

	return fmt.Sprintf("%s: $%s/mo, $%s setup",
		strings.Join(parts, ", "), formatMoney(monthly), formatMoney(setup))
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// formatMoney renders a decimal with thousands separators and two decimal
// places.
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	dot := strings.Index(s, ".")
	intPart, fraction := s[:dot], s[dot:]

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}

	out := b.String() + fraction
	if negative {
		out = "-" + out
	}
	return out
}
