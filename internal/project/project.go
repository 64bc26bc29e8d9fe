// Package project holds the tenant model read by the core. Projects are
// created and owned by the external team-management service; this module
// only resolves them.
package project

import "time"

// Project is the unit of data isolation. APIKey authenticates ingestion;
// TeamID scopes analytics access.
type Project struct {
	ID        string
	TeamID    string
	Name      string
	APIKey    string
	CreatedAt time.Time
}
