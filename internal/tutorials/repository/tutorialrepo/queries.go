package tutorialrepo

import (
	"github.com/Leopold1975/tutorials_control/internal/tutorials/domain/models"
	"github.com/Masterminds/squirrel"
)

const table = "tutorials"

var columns = []string{"id", "title", "tutorial_url", "description", "published", "created_at", "updated_at"}

// Scanner is implemented by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

func InsertQuery(sb squirrel.StatementBuilderType, t models.Tutorial) squirrel.InsertBuilder {
	return sb.Insert(table).
		Columns("title", "tutorial_url", "description", "published", "created_at", "updated_at").
		Values(t.Title, t.TutorialURL, t.Description, t.Published, t.CreatedAt, t.UpdatedAt).
		Suffix("RETURNING id")
}

func GetQuery(sb squirrel.StatementBuilderType, id int64) squirrel.SelectBuilder {
	return sb.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})
}

func ListQuery(sb squirrel.StatementBuilderType, req ListRequest) squirrel.SelectBuilder {
	q := sb.Select(columns...).From(table)

	if req.Title != "" {
		q = q.Where(squirrel.Eq{"title": req.Title})
	}

	if req.Published != nil {
		q = q.Where(squirrel.Eq{"published": *req.Published})
	}

	q = q.OrderBy("id ASC")

	if req.Offset > 0 {
		q = q.Offset(uint64(req.Offset))
	}

	if req.Limit > 0 {
		q = q.Limit(uint64(req.Limit))
	}

	return q
}

func UpdateQuery(sb squirrel.StatementBuilderType, t models.Tutorial) squirrel.UpdateBuilder {
	return sb.Update(table).
		Set("title", t.Title).
		Set("tutorial_url", t.TutorialURL).
		Set("description", t.Description).
		Set("published", t.Published).
		Set("updated_at", t.UpdatedAt).
		Where(squirrel.Eq{"id": t.ID})
}

func DeleteQuery(sb squirrel.StatementBuilderType, id int64) squirrel.DeleteBuilder {
	return sb.Delete(table).Where(squirrel.Eq{"id": id})
}

func Scan(s Scanner) (models.Tutorial, error) {
	var t models.Tutorial

	err := s.Scan(&t.ID, &t.Title, &t.TutorialURL, &t.Description, &t.Published, &t.CreatedAt, &t.UpdatedAt)

	return t, err //nolint:wrapcheck
}
