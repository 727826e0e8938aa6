package migration

import (
	"github.com/pedalworks/repairbay/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists every table gorm can create directly from struct
// tags. Constraints it cannot express — partial unique indexes and the
// append-only triggers — live in scripts/ and run after this.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.RoleAssignmentModel{},
		&models.AccessRequestModel{},
		&models.CategoryModel{},
		&models.ItemModel{},
		&models.PartModel{},
		&models.TicketModel{},
		&models.TicketPartModel{},
		&models.WorkSessionModel{},
		&models.TicketTransitionModel{},
		&models.WorkSessionTransitionModel{},
		&models.XPLedgerEntryModel{},
		&models.CheckInModel{},
		&models.TelegramOffsetModel{},
	}
}
