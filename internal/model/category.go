package model

import "strings"

// DefaultCategory is used when a task is created without one.
const DefaultCategory = "Pessoal"

// Categories is the fixed set of labels a task can carry.
var Categories = []string{"Pessoal", "Trabalho", "Estudos", "Saúde", "Compras"}

// CategoryCount summarizes the tasks filed under one category.
type CategoryCount struct {
	Name      string
	Total     int
	Completed int
}

// CanonicalCategory matches name against Categories ignoring case.
func CanonicalCategory(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	for _, c := range Categories {
		if strings.EqualFold(c, trimmed) {
			return c, true
		}
	}
	return "", false
}
