package service

import (
	"sync"

	"bizpos-backend/internal/domain"
	"github.com/invopop/jsonschema"
)

var settingsSchema = sync.OnceValue(func() *jsonschema.Schema {
	r := new(jsonschema.Reflector)
	schema := r.Reflect(&domain.BusinessSettings{})
	schema.ID = "https://bizpos.dev/schemas/business-settings.json"
	schema.Title = "Business settings"
	schema.Description = "Configuration document of one POS business"
	return schema
})

// SettingsSchema returns the JSON schema of a settings document.
func SettingsSchema() *jsonschema.Schema {
	return settingsSchema()
}
