package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"bizpos-backend/internal/domain"
	"bizpos-backend/internal/editor"
	"bizpos-backend/internal/ports"
	"bizpos-backend/internal/validation"
)

const systemActor = "system"

// Snapshot is a settings tree as returned to callers.
type Snapshot struct {
	BusinessID    string                   `json:"businessId"`
	Settings      *domain.BusinessSettings `json:"settings"`
	Persisted     bool                     `json:"persisted"`
	ActiveSectors []domain.SectorSection   `json:"activeSectors"`
	Violations    validation.Violations    `json:"violations,omitempty"`
}

// SectorReport describes which sector sections apply to a business.
type SectorReport struct {
	IndustryType domain.IndustryType    `json:"industryType"`
	Active       []domain.SectorSection `json:"active"`
	Present      []domain.SectorSection `json:"present"`
}

// SettingsService runs load, edit, validate and save for one business at a
// time. Audit, Editor, Logger and Now are optional.
type SettingsService struct {
	Store            SettingsStore
	Audit            ports.AuditRepository
	Editor           *editor.Editor
	Logger           *slog.Logger
	DefaultIndustry  domain.IndustryType
	DefaultCurrency  string
	StrictValidation bool
	Now              func() time.Time
}

// Current returns the stored tree, or the defaults for a business that has
// never saved anything. Load failures are returned as is.
func (s SettingsService) Current(ctx context.Context, businessID string) (*Snapshot, error) {
	settings, persisted, err := s.current(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return newSnapshot(businessID, settings, persisted, nil), nil
}

func (s SettingsService) current(ctx context.Context, businessID string) (*domain.BusinessSettings, bool, error) {
	settings, err := s.Store.Load(ctx, businessID)
	if errors.Is(err, ErrNotFound) {
		return domain.DefaultBusinessSettings(s.DefaultIndustry, s.DefaultCurrency), false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return settings.WithSectorDefaults(), true, nil
}

// Section returns the value stored at a dotted section path.
func (s SettingsService) Section(ctx context.Context, businessID, sectionPath string) (any, error) {
	settings, _, err := s.current(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return editor.Get(settings, sectionPath)
}

// Replace validates and saves a whole tree.
func (s SettingsService) Replace(ctx context.Context, actor, businessID string, settings *domain.BusinessSettings) (*Snapshot, error) {
	if err := checkBusinessID(businessID); err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, &validation.Error{Violations: validation.Validate(nil)}
	}
	return s.commit(ctx, actor, businessID, "replace", "", editor.Normalize(settings))
}

func (s SettingsService) SetField(ctx context.Context, actor, businessID, sectionPath, fieldName string, value any) (*Snapshot, error) {
	return s.edit(ctx, actor, businessID, "setField", sectionPath+"."+fieldName, func(tree *domain.BusinessSettings) (*domain.BusinessSettings, error) {
		return s.editor().SetField(tree, sectionPath, fieldName, value)
	})
}

// AddListItem returns the snapshot and the id generated for the new item.
func (s SettingsService) AddListItem(ctx context.Context, actor, businessID, sectionPath, listName string, item any) (*Snapshot, string, error) {
	var id string
	snap, err := s.edit(ctx, actor, businessID, "addListItem", sectionPath+"."+listName, func(tree *domain.BusinessSettings) (*domain.BusinessSettings, error) {
		out, newID, err := s.editor().AddListItem(tree, sectionPath, listName, item)
		id = newID
		return out, err
	})
	if err != nil {
		return nil, "", err
	}
	return snap, id, nil
}

func (s SettingsService) UpdateListItem(ctx context.Context, actor, businessID, sectionPath, listName, itemID, fieldName string, value any) (*Snapshot, error) {
	path := sectionPath + "." + listName + "[" + itemID + "]." + fieldName
	return s.edit(ctx, actor, businessID, "updateListItem", path, func(tree *domain.BusinessSettings) (*domain.BusinessSettings, error) {
		return s.editor().UpdateListItem(tree, sectionPath, listName, itemID, fieldName, value)
	})
}

func (s SettingsService) RemoveListItem(ctx context.Context, actor, businessID, sectionPath, listName, itemID string) (*Snapshot, error) {
	path := sectionPath + "." + listName + "[" + itemID + "]"
	return s.edit(ctx, actor, businessID, "removeListItem", path, func(tree *domain.BusinessSettings) (*domain.BusinessSettings, error) {
		return s.editor().RemoveListItem(tree, sectionPath, listName, itemID)
	})
}

func (s SettingsService) SetExclusiveFlag(ctx context.Context, actor, businessID, sectionPath, listName, itemID, flagName string) (*Snapshot, error) {
	path := sectionPath + "." + listName + "[" + itemID + "]." + flagName
	return s.edit(ctx, actor, businessID, "setExclusiveFlag", path, func(tree *domain.BusinessSettings) (*domain.BusinessSettings, error) {
		return s.editor().SetExclusiveFlag(tree, sectionPath, listName, itemID, flagName)
	})
}

// Sectors reports the active and present sector sections of a business.
func (s SettingsService) Sectors(ctx context.Context, businessID string) (*SectorReport, error) {
	settings, _, err := s.current(ctx, businessID)
	if err != nil {
		return nil, err
	}
	industry := settings.IndustryType()
	present := settings.PresentSectors()
	if present == nil {
		present = []domain.SectorSection{}
	}
	return &SectorReport{
		IndustryType: industry,
		Active:       domain.ActiveSectors(industry),
		Present:      present,
	}, nil
}

// Validate checks a tree the way a save would, without saving it.
func (s SettingsService) Validate(settings *domain.BusinessSettings) validation.Violations {
	return validation.Validate(settings.WithSectorDefaults())
}

// AuditLog lists the most recent audit entries of a business.
func (s SettingsService) AuditLog(ctx context.Context, businessID string, limit int) ([]domain.AuditEntry, error) {
	if err := checkBusinessID(businessID); err != nil {
		return nil, err
	}
	if s.Audit == nil {
		return []domain.AuditEntry{}, nil
	}
	entries, err := s.Audit.List(ctx, businessID, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	return entries, nil
}

type editFunc func(tree *domain.BusinessSettings) (*domain.BusinessSettings, error)

// edit applies fn to the current tree and commits the result. An fn that
// returns its input unchanged saves nothing.
func (s SettingsService) edit(ctx context.Context, actor, businessID, op, path string, fn editFunc) (*Snapshot, error) {
	tree, persisted, err := s.current(ctx, businessID)
	if err != nil {
		return nil, err
	}
	next, err := fn(tree)
	if err != nil {
		editOperations.WithLabelValues(op, "rejected").Inc()
		return nil, err
	}
	if next == tree {
		editOperations.WithLabelValues(op, "unchanged").Inc()
		return newSnapshot(businessID, tree, persisted, nil), nil
	}
	return s.commit(ctx, actor, businessID, op, path, next)
}

func (s SettingsService) commit(ctx context.Context, actor, businessID, op, path string, next *domain.BusinessSettings) (*Snapshot, error) {
	next = next.WithSectorDefaults()
	violations := validation.Validate(next)
	// A tree without its required sections is never stored, strict or not.
	if (s.StrictValidation || len(next.MissingSections()) > 0) && violations.HasErrors() {
		editOperations.WithLabelValues(op, "invalid").Inc()
		return nil, &validation.Error{Violations: violations.Errors()}
	}

	if err := s.Store.Save(ctx, businessID, next); err != nil {
		editOperations.WithLabelValues(op, "error").Inc()
		s.logger().Error("settings save failed", "business_id", businessID, "operation", op, "error", err)
		return nil, err
	}
	editOperations.WithLabelValues(op, "ok").Inc()
	s.logger().Info("settings saved", "business_id", businessID, "operation", op, "path", path, "actor", actorOrSystem(actor))

	s.recordAudit(ctx, actor, businessID, op, path, next, violations)
	return newSnapshot(businessID, next, true, violations), nil
}

func (s SettingsService) recordAudit(ctx context.Context, actor, businessID, op, path string, settings *domain.BusinessSettings, violations validation.Violations) {
	if s.Audit == nil || settings.Security == nil || !settings.Security.AuditLog.Enabled {
		return
	}
	typ := domain.AuditInfo
	if len(violations) > 0 {
		typ = domain.AuditWarning
	}
	_, err := s.Audit.Create(ctx, domain.AuditEntry{
		BusinessID: businessID,
		Actor:      actorOrSystem(actor),
		Operation:  op,
		Path:       path,
		Type:       typ,
		LoggedAt:   s.now().UTC(),
	})
	if err != nil {
		s.logger().Warn("settings audit failed", "business_id", businessID, "operation", op, "error", err)
	}
}

func (s SettingsService) editor() *editor.Editor {
	if s.Editor == nil {
		return editor.New()
	}
	return s.Editor
}

func (s SettingsService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s SettingsService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func actorOrSystem(actor string) string {
	if actor == "" {
		return systemActor
	}
	return actor
}

func newSnapshot(businessID string, settings *domain.BusinessSettings, persisted bool, violations validation.Violations) *Snapshot {
	return &Snapshot{
		BusinessID:    businessID,
		Settings:      settings,
		Persisted:     persisted,
		ActiveSectors: domain.ActiveSectors(settings.IndustryType()),
		Violations:    violations,
	}
}
