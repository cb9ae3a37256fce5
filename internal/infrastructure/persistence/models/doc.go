// Package models contains GORM persistence models that map to database tables.
// These models are separate from domain entities so the domain layer stays free
// of ORM concerns.
//
// Key Principles:
// 1. Domain entities carry no GORM tags
// 2. Persistence models hold all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Columns the database derives (available_qty) are read-only here
//
// Structure:
// - base.go: UUID-keyed base model
// - coc.go: lot ledger, consumption log, production records and companies
package models
