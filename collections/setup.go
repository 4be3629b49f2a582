package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

// LocalStoreCollection holds the key/value documents behind bill history and
// drafts.
const LocalStoreCollection = "local_store"

// maxValueLength bounds a stored document. Draft lists carry whole bills.
const maxValueLength = 5 << 20

// Setup ensures the collections the application needs exist.
func Setup(app core.App, logger *zap.Logger) error {
	_, err := ensureCollection(app, logger, LocalStoreCollection, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "key", Required: true, Max: 200})
		c.Fields.Add(&core.TextField{Name: "value", Max: maxValueLength})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_local_store_key", true, "key", "")
	})
	return err
}

// ensureCollection returns the named collection, creating it with the fields
// added by addFields when it does not exist yet.
func ensureCollection(app core.App, logger *zap.Logger, name string, addFields func(*core.Collection)) (*core.Collection, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		logger.Debug("collection already exists", zap.String("collection", name))
		return existing, nil
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		return nil, fmt.Errorf("create collection %q: %w", name, err)
	}

	logger.Info("created collection", zap.String("collection", name), zap.String("id", collection.Id))
	return collection, nil
}
