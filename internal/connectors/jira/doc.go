// Package jira implements the JIRA Cloud search adapter.
//
// Requests go through the Atlassian API gateway
// (https://api.atlassian.com/ex/jira/{cloudId}) with an OAuth 2.0 (3LO)
// access token, so every search needs both the token and the cloud id.
//
// # Query Translation
//
// Free text becomes a JQL text clause. A few phrases become structured
// filters instead:
//
//	"assigned to me", "my"   assignee = currentUser()
//	"bug", "bugs"            issuetype = Bug
//	"open", "unresolved"     statusCategory != Done
//	"done", "closed"         statusCategory = Done
//
// Results are always ordered by last update.
package jira
