package store

import (
	"fmt"

	"github.com/MKhiriev/go-accounts/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// mongoInsertionOrder is the key documents are sorted by when no sort is
// requested, and the tiebreaker appended to every explicit sort so that
// skip/limit pages never overlap.
const mongoInsertionOrder = "_id"

func userFilterDocument(filter models.UserFilter) bson.D {
	doc := bson.D{}

	if filter.UserID != "" {
		doc = append(doc, bson.E{Key: models.FieldUserID, Value: filter.UserID})
	}
	if filter.Email != "" {
		doc = append(doc, bson.E{Key: models.FieldEmail, Value: filter.Email})
	}
	if filter.Username != "" {
		doc = append(doc, bson.E{Key: models.FieldUsername, Value: filter.Username})
	}
	if filter.Status != "" {
		doc = append(doc, bson.E{Key: models.FieldStatus, Value: filter.Status})
	}
	if filter.Role != "" {
		// equality against an array field matches any element
		doc = append(doc, bson.E{Key: models.FieldRoles, Value: filter.Role})
	}
	if !filter.CreatedAt.IsZero() {
		doc = append(doc, bson.E{Key: models.FieldCreatedAt, Value: timeRangeDocument(filter.CreatedAt)})
	}
	if !filter.LatestLogin.IsZero() {
		doc = append(doc, bson.E{Key: models.FieldLatestLogin, Value: timeRangeDocument(filter.LatestLogin)})
	}

	return doc
}

func timeRangeDocument(r *models.TimeRange) bson.D {
	doc := bson.D{}
	if r.From != nil {
		doc = append(doc, bson.E{Key: "$gte", Value: *r.From})
	}
	if r.To != nil {
		doc = append(doc, bson.E{Key: "$lte", Value: *r.To})
	}
	return doc
}

func projectionDocument(fields []string) (bson.D, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	doc := bson.D{{Key: mongoInsertionOrder, Value: 0}}
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if !models.IsUserField(field) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		// Mongo rejects a projection naming the same path twice.
		if _, dup := seen[field]; dup {
			continue
		}
		seen[field] = struct{}{}
		doc = append(doc, bson.E{Key: field, Value: 1})
	}

	return doc, nil
}

func sortDocument(sort []models.SortField) (bson.D, error) {
	doc := make(bson.D, 0, len(sort)+1)
	for _, key := range sort {
		if !models.IsUserField(key.Field) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, key.Field)
		}
		order := 1
		if key.Order == models.Descending {
			order = -1
		}
		doc = append(doc, bson.E{Key: key.Field, Value: order})
	}

	return append(doc, bson.E{Key: mongoInsertionOrder, Value: 1}), nil
}

func userChangesDocument(changes models.UserChanges) bson.D {
	set := bson.D{}

	if changes.Email != nil {
		set = append(set, bson.E{Key: models.FieldEmail, Value: *changes.Email})
	}
	if changes.Username != nil {
		set = append(set, bson.E{Key: models.FieldUsername, Value: *changes.Username})
	}
	if changes.Password != nil {
		set = append(set, bson.E{Key: models.FieldPassword, Value: *changes.Password})
	}
	if changes.Firstname != nil {
		set = append(set, bson.E{Key: models.FieldFirstname, Value: *changes.Firstname})
	}
	if changes.Lastname != nil {
		set = append(set, bson.E{Key: models.FieldLastname, Value: *changes.Lastname})
	}
	if changes.Roles != nil {
		roles := *changes.Roles
		if roles == nil {
			roles = []models.Role{}
		}
		set = append(set, bson.E{Key: models.FieldRoles, Value: roles})
	}
	if changes.Status != nil {
		set = append(set, bson.E{Key: models.FieldStatus, Value: *changes.Status})
	}

	return set
}
