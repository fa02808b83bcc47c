package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// junction describes a many-to-many link table with a composite primary key.
type junction struct {
	table     string
	parentCol string
	childCol  string
}

var (
	projectServices     = junction{table: "project_services", parentCol: "project_id", childCol: "service_id"}
	blogArticleServices = junction{table: "blog_article_services", parentCol: "blog_article_id", childCol: "service_id"}
	blogArticleProjects = junction{table: "blog_article_projects", parentCol: "blog_article_id", childCol: "project_id"}
	teamMemberServices  = junction{table: "team_member_services", parentCol: "team_member_id", childCol: "service_id"}
)

// DiffIDs compares the current child set with the wanted one. Duplicates in
// wanted are ignored. added keeps the order of wanted, removed the order of current.
func DiffIDs(current, wanted []int64) (added, removed []int64) {
	have := make(map[int64]bool, len(current))
	for _, id := range current {
		have[id] = true
	}
	want := make(map[int64]bool, len(wanted))
	for _, id := range wanted {
		if want[id] {
			continue
		}
		want[id] = true
		if !have[id] {
			added = append(added, id)
		}
	}
	for _, id := range current {
		if !want[id] {
			removed = append(removed, id)
		}
	}
	return added, removed
}

// childIDs reads the child ids linked to parentID.
func (j junction) childIDs(db *gorm.DB, parentID int64) ([]int64, error) {
	ids := make([]int64, 0)
	err := db.Table(j.table).
		Where(j.parentCol+" = ?", parentID).
		Order(j.childCol).
		Pluck(j.childCol, &ids).Error
	return ids, err
}

type link struct {
	ParentID int64
	ChildID  int64
}

// childIDsFor reads the links of several parents in one query.
func (j junction) childIDsFor(db *gorm.DB, parentIDs []int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64, len(parentIDs))
	if len(parentIDs) == 0 {
		return out, nil
	}
	var links []link
	err := db.Table(j.table).
		Select(j.parentCol+" AS parent_id, "+j.childCol+" AS child_id").
		Where(j.parentCol+" IN ?", parentIDs).
		Order(j.childCol).
		Scan(&links).Error
	if err != nil {
		return nil, err
	}
	for _, l := range links {
		out[l.ParentID] = append(out[l.ParentID], l.ChildID)
	}
	return out, nil
}

// insert links parentID to childIDs, skipping pairs that already exist.
func (j junction) insert(db *gorm.DB, parentID int64, childIDs []int64) error {
	if len(childIDs) == 0 {
		return nil
	}
	placeholders := make([]string, len(childIDs))
	args := make([]interface{}, 0, 2*len(childIDs))
	for i, id := range childIDs {
		placeholders[i] = "(?, ?)"
		args = append(args, parentID, id)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES %s ON CONFLICT DO NOTHING",
		j.table, j.parentCol, j.childCol, strings.Join(placeholders, ", "))
	return db.Exec(query, args...).Error
}

// remove unlinks childIDs from parentID.
func (j junction) remove(db *gorm.DB, parentID int64, childIDs []int64) error {
	if len(childIDs) == 0 {
		return nil
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND %s IN ?", j.table, j.parentCol, j.childCol)
	return db.Exec(query, parentID, childIDs).Error
}

// clear drops every link of parentID.
func (j junction) clear(db *gorm.DB, parentID int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", j.table, j.parentCol)
	return db.Exec(query, parentID).Error
}

// sync makes the links of parentID equal to wanted. Callers run it inside a
// transaction so the removals and inserts land together.
func (j junction) sync(tx *gorm.DB, parentID int64, wanted []int64) error {
	current, err := j.childIDs(tx, parentID)
	if err != nil {
		return err
	}
	added, removed := DiffIDs(current, wanted)
	if err := j.remove(tx, parentID, removed); err != nil {
		return err
	}
	return j.insert(tx, parentID, added)
}
