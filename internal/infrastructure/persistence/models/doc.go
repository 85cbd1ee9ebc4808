// Package models contains the GORM persistence models. Domain types carry no
// ORM tags; each model converts to and from its domain type.
package models
