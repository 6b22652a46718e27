// Package analysis extracts a structured editorial breakdown of an article:
// headline, category, tone, facts, quotes, entities, and narrative arc. The
// breakdown is the shared input every generation pipeline works from.
package analysis
