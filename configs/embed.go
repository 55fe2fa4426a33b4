// Package configs embeds the default assessment knowledge base, used when no
// catalog path is configured.
package configs

import _ "embed"

//go:embed knowledge_base.json
var DefaultKnowledgeBase []byte
