package visits

import (
	"fmt"
	"sort"

	"github.com/parkpals/parkpals-backend/pkg/db/models"
	pkgerrors "github.com/parkpals/parkpals-backend/pkg/errors"
	"gorm.io/gorm"
)

// dedupeDogIDs collapses duplicate ids and returns them in ascending order so
// validation and link creation are deterministic.
func dedupeDogIDs(dogIDs []int64) []int64 {
	seen := make(map[int64]struct{}, len(dogIDs))
	out := make([]int64, 0, len(dogIDs))
	for _, id := range dogIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// validateAttachSet resolves the requested dog ids inside the transaction and
// verifies every dog belongs to ownerID. It fails before any link row is
// written: a missing id is a validation failure, a dog owned by someone else
// is forbidden and names the offending dog.
func validateAttachSet(tx *gorm.DB, ownerID int64, dogIDs []int64) ([]int64, error) {
	ids := dedupeDogIDs(dogIDs)
	if len(ids) == 0 {
		return ids, nil
	}

	var resolved []models.Dog
	if err := tx.Where("id IN ?", ids).Find(&resolved).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve dogs")
	}

	if len(resolved) < len(ids) {
		found := make(map[int64]struct{}, len(resolved))
		for _, dog := range resolved {
			found[dog.ID] = struct{}{}
		}
		missing := make([]int64, 0, len(ids)-len(resolved))
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				missing = append(missing, id)
			}
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "one or more dog ids do not exist").
			WithDetails(map[string]any{"missing_dog_ids": missing})
	}

	for _, dog := range resolved {
		if dog.OwnerID != ownerID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden,
				fmt.Sprintf("dog %q does not belong to you", dog.Name))
		}
	}

	return ids, nil
}

// createLinks inserts one link row per dog id. Callers must have validated
// the set first; ids are already de-duplicated.
func createLinks(tx *gorm.DB, visitID int64, dogIDs []int64) error {
	if len(dogIDs) == 0 {
		return nil
	}
	links := make([]models.VisitDog, 0, len(dogIDs))
	for _, dogID := range dogIDs {
		links = append(links, models.VisitDog{VisitID: visitID, DogID: dogID})
	}
	if err := tx.Create(&links).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create visit links")
	}
	return nil
}

// replaceLinks swaps a visit's dog set for a new one. Validation happens
// before the old rows are deleted so a bad set leaves the prior links intact
// when the surrounding transaction rolls back.
func replaceLinks(tx *gorm.DB, visitID, ownerID int64, dogIDs []int64) error {
	validated, err := validateAttachSet(tx, ownerID, dogIDs)
	if err != nil {
		return err
	}
	if err := tx.Where("visit_id = ?", visitID).Delete(&models.VisitDog{}).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear visit links")
	}
	return createLinks(tx, visitID, validated)
}
