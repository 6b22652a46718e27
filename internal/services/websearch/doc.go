// Package websearch queries a hosted web-search API. The fact-check step in
// the QA pipeline uses it to find corroborating sources for extracted claims.
package websearch
