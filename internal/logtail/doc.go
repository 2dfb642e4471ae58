// Package logtail reads the tail of shelf's log file for the in-app log view.
//
// Read keeps only the last maxLines lines in a ring buffer, so memory stays
// O(maxLines) regardless of file size. A missing file is not an error.
//
// Parse splits a line written by the standard logger (prefix, then
// "2006/01/02 15:04:05", then the message) and infers a Level from the
// message text. Messages about failures or corrupt entries are LevelError.
// Messages about cached, offline or fallback data are LevelWarn. Everything
// else is LevelInfo. Lines that do not match the layout keep their full text
// and a zero Time.
package logtail
