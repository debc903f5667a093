package datastore

import (
	"context"

	"github.com/uptrace/bun"

	"resilience/internal/models"
)

func CreateTableEcoAction(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.EcoAction)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().Model((*models.EcoActionLike)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.EcoActionLike)(nil)).Index("index_eco_action_like_action_user").IfNotExists().Unique().Column("action_id", "user_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().Model((*models.EcoActionComment)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.EcoActionComment)(nil)).Index("index_eco_action_comment_action_id").IfNotExists().Column("action_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertEcoAction(ctx context.Context, db *bun.DB, action *models.EcoAction) error {
	_, err := db.NewInsert().Model(action).Exec(ctx)
	return err
}

func ListEcoActions(ctx context.Context, db *bun.DB, viewerID string, limit, offset int) ([]*models.EcoAction, error) {
	var actions []*models.EcoAction
	err := db.NewSelect().Model(&actions).
		Relation("Author").
		ColumnExpr("eco_action.*").
		ColumnExpr("exists(SELECT 1 FROM eco_action_like l WHERE l.action_id = eco_action.id AND l.user_id = ?) AS liked", viewerID).
		Order("eco_action.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return actions, nil
}

func FindEcoAction(ctx context.Context, db *bun.DB, actionID string) (*models.EcoAction, error) {
	var action models.EcoAction
	err := db.NewSelect().Model(&action).Where("id = ?", actionID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &action, nil
}

// LikeEcoAction inserts the like and bumps the counter in one
// transaction; duplicate likes are no-ops.
func LikeEcoAction(ctx context.Context, db *bun.DB, like *models.EcoActionLike) (bool, error) {
	var liked bool
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewInsert().Model(like).
			On("conflict (action_id, user_id) DO nothing").
			Exec(ctx)
		if err != nil {
			return err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return nil
		}

		liked = true
		_, err = tx.NewUpdate().
			Model((*models.EcoAction)(nil)).
			Set("likes_count = likes_count + 1").
			Where("id = ?", like.ActionID).
			Exec(ctx)
		return err
	})
	return liked, err
}

func InsertEcoActionComment(ctx context.Context, db *bun.DB, comment *models.EcoActionComment) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(comment).Exec(ctx); err != nil {
			return err
		}

		_, err := tx.NewUpdate().
			Model((*models.EcoAction)(nil)).
			Set("comments_count = comments_count + 1").
			Where("id = ?", comment.ActionID).
			Exec(ctx)
		return err
	})
}

func ListEcoActionComments(ctx context.Context, db *bun.DB, actionID string, limit, offset int) ([]*models.EcoActionComment, error) {
	var comments []*models.EcoActionComment
	err := db.NewSelect().Model(&comments).
		Relation("Author").
		Where("eco_action_comment.action_id = ?", actionID).
		Order("eco_action_comment.created_at ASC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return comments, nil
}
