package controllers

import "github.com/sukryu/labsite/pkg/store/document"

// ReadField is the inbox flag kept outside the collection schema.
const ReadField = "read"

func isRead(fields document.Fields) bool {
	read, _ := fields[ReadField].(bool)
	return read
}

func countUnread(items []document.Item) int64 {
	var n int64
	for _, it := range items {
		if !isRead(it.Fields) {
			n++
		}
	}
	return n
}
