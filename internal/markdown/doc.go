// Package markdown loads host articles from a content directory. Front matter
// is split off, the body is rendered with goldmark, and each document becomes
// an Article whose HTML the gist resolver rewrites in place.
package markdown
