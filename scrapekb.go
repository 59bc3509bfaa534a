// Package scrapekb extracts clean article content from arbitrary web pages
// and PDF documents and assembles it into uniform knowledge-base records.
//
// A run fetches a target, decides whether it is a single article or a
// listing page, discovers and ranks candidate article links on listing
// pages, isolates the main content of each article through an ordered chain
// of extraction strategies, infers title and author, and normalizes the
// result to Markdown. PDF input is segmented into chapters instead.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, readability/, sqlite/).
package scrapekb
