package mcpserver

// ItemFormatContract describes the catalog item record that LLM consumers
// should follow when creating items.
const ItemFormatContract = `# Othala Item Format Contract

Every catalog item created through the MCP tools MUST follow this structure.

## Fields

- ` + "`" + `title` + "`" + ` (REQUIRED): human-readable title, used in search and listings.
- ` + "`" + `type` + "`" + `: one of ` + "`" + `note` + "`" + `, ` + "`" + `link` + "`" + `, ` + "`" + `file` + "`" + `. Defaults to ` + "`" + `note` + "`" + `.
  The ` + "`" + `file` + "`" + ` type is reserved for uploads and cannot be created via MCP.
- ` + "`" + `description` + "`" + `: one or two sentences of context.
- ` + "`" + `url` + "`" + `: required in practice for ` + "`" + `link` + "`" + ` items; absolute, including scheme.
- ` + "`" + `content` + "`" + `: body text for ` + "`" + `note` + "`" + ` items; plain text, any language.
- ` + "`" + `category` + "`" + `: a category id from ` + "`" + `list_categories` + "`" + `. Defaults to ` + "`" + `other` + "`" + `.
  Unknown ids are accepted but will not appear in category breakdowns.
- ` + "`" + `tags` + "`" + `: comma-separated, lowercase, kebab-case (e.g. ` + "`" + `field-report` + "`" + `).

## Rules

1. **Call ` + "`" + `list_categories` + "`" + ` before filing** an item anywhere other than ` + "`" + `other` + "`" + `.
2. **Do not duplicate**: use ` + "`" + `search_items` + "`" + ` first; prefer updating context in an
   existing item over creating a near-identical one.
3. **Ids are assigned by the service** and are opaque; never invent one.
4. **Timestamps, views, and stats are server-maintained**; tools never set them.

## Example

` + "```" + `json
{
  "title": "Rail traffic disruption near Kharkiv",
  "type": "link",
  "url": "https://example.org/report/4821",
  "description": "Summary of the 2025-03 disruption with satellite references.",
  "category": "research",
  "tags": "rail, osint"
}
` + "```" + `
`
