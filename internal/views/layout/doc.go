// Package layout renders the HTML document shell.
package layout
