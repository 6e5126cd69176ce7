package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/pricing"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
	"github.com/sangkips/shopfloor-api/pkg/utils"
)

// Pricer loads current reference data for a document and runs the totals engine.
// Nothing is cached: every call reads the equipment, material and add-on rows.
type Pricer struct {
	equipmentRepo repository.EquipmentRepository
	materialRepo  repository.MaterialRepository
	addOnRepo     repository.AddOnRepository
}

// NewPricer creates a new pricer
func NewPricer(
	equipmentRepo repository.EquipmentRepository,
	materialRepo repository.MaterialRepository,
	addOnRepo repository.AddOnRepository,
) *Pricer {
	return &Pricer{
		equipmentRepo: equipmentRepo,
		materialRepo:  materialRepo,
		addOnRepo:     addOnRepo,
	}
}

// Price resolves line references against the tenant's catalog, fills display
// fields and any rate or fee the line leaves out, and computes totals. Lines referencing unknown rows
// are kept and contribute nothing.
func (p *Pricer) Price(ctx context.Context, items pricing.LineItems, marginPercent float64) (pricing.LineItems, pricing.DocumentTotals, error) {
	rates, err := p.resolveEquipment(ctx, items.Equipment)
	if err != nil {
		return items, pricing.DocumentTotals{}, err
	}
	prices, err := p.resolveMaterials(ctx, items.Materials)
	if err != nil {
		return items, pricing.DocumentTotals{}, err
	}
	if err := p.resolveAddOns(ctx, items.AddOns); err != nil {
		return items, pricing.DocumentTotals{}, err
	}

	totals := pricing.ComputeDocumentTotals(rates, prices, items, pricing.Number(marginPercent))
	return items, totals, nil
}

func (p *Pricer) resolveEquipment(ctx context.Context, lines []pricing.EquipmentLine) (map[string]pricing.RateTable, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for i := range lines {
		if id, err := utils.ParseUUID(lines[i].EquipmentID); err == nil {
			lines[i].EquipmentID = id.String()
			ids = append(ids, id)
		}
	}

	equipment, err := p.equipmentRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	rates := make(map[string]pricing.RateTable, len(equipment))
	for i := range equipment {
		e := &equipment[i]
		key := e.ID.String()
		rates[key] = e.RateTable()

		for j := range lines {
			line := &lines[j]
			if line.EquipmentID != key {
				continue
			}
			line.Name = e.Name
			line.Category = e.Category
			switch {
			case e.UsesInk():
				line.Mode = pricing.ModeInk
			case line.Mode != pricing.ModeHourly && line.Mode != pricing.ModeFlat:
				if e.FlatFee > 0 && e.HourlyRate == 0 {
					line.Mode = pricing.ModeFlat
				} else {
					line.Mode = pricing.ModeHourly
				}
			}
			// an explicit 0 on the line is a price, not a missing value
			if line.Rate == nil {
				line.Rate = pricing.NumberOf(e.HourlyRate)
			}
			if line.FlatFee == nil {
				line.FlatFee = pricing.NumberOf(e.FlatFee)
			}
		}
	}
	return rates, nil
}

func (p *Pricer) resolveMaterials(ctx context.Context, lines []pricing.MaterialLine) (map[string]pricing.MaterialPrice, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for i := range lines {
		if id, err := utils.ParseUUID(lines[i].MaterialID); err == nil {
			lines[i].MaterialID = id.String()
			ids = append(ids, id)
		}
	}

	materials, err := p.materialRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	prices := make(map[string]pricing.MaterialPrice, len(materials))
	for i := range materials {
		m := &materials[i]
		key := m.ID.String()
		prices[key] = m.Price()
		for j := range lines {
			if lines[j].MaterialID == key {
				lines[j].Name = m.Name
			}
		}
	}
	return prices, nil
}

func (p *Pricer) resolveAddOns(ctx context.Context, lines []pricing.AddOnLine) error {
	for i := range lines {
		line := &lines[i]
		id, err := utils.ParseUUID(line.AddOnID)
		if err != nil {
			continue
		}
		line.AddOnID = id.String()

		addOn, err := p.addOnRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if addOn == nil {
			continue
		}
		if line.Name == "" {
			line.Name = addOn.Name
		}
		if line.UnitPrice == nil {
			line.UnitPrice = pricing.NumberOf(addOn.UnitPrice)
		}
	}
	return nil
}
