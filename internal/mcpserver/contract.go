package mcpserver

// PostFormatContract describes the canonical Markdown post format that
// LLM consumers should follow when creating or updating posts.
const PostFormatContract = `# Wunjo Post Format Contract

Every Markdown post stored in Wunjo MUST follow this structure.

## Structure

` + "```" + `markdown
---
title: Human-readable title          # REQUIRED – used in lists and search
description: One-sentence summary    # OPTIONAL – shown in link previews
excerpt: Short teaser paragraph      # OPTIONAL – falls back to description
date: 2025-01-15                     # OPTIONAL – publication date (ISO-8601)
lastmod: 2025-02-01                  # OPTIONAL – last edit; never before date
draft: false                         # OPTIONAL – drafts are hidden by default
weight: 10                           # OPTIONAL – manual ordering, lower first
pinned: false                        # OPTIONAL – float above siblings
homepage: false                      # OPTIONAL – feature on the front page
categories:                          # OPTIONAL – broad grouping, YAML list
  - engineering
tags:                                # OPTIONAL – fine-grained labels
  - go
  - sqlite
contributors:                        # OPTIONAL – author names, order preserved
  - Jane Doe
---

Body text in standard Markdown (GFM: tables, task lists, strikethrough).
` + "```" + `

## Rules

1. **YAML front-matter is mandatory.** The ` + "```" + `---` + "```" + ` fences must be the first
   thing in the file (no leading blank lines).
2. **` + "`" + `title` + "`" + ` field is required.** It is the primary display name everywhere.
3. **Tags and categories** are lowercase, kebab-case (e.g. ` + "`" + `release-notes` + "`" + `).
4. **Posts do not link to each other structurally.** Relationships between
   posts are expressed ONLY through shared tags, categories, and contributors.
   Plain Markdown links to other ` + "`" + `.md` + "`" + ` files are allowed in the body and are
   checked by the linter, but they carry no semantic weight.
5. **File paths** end with ` + "`" + `.md` + "`" + ` and use forward slashes.
6. **Encoding** is UTF-8 with a trailing newline.
7. **Dates** use ISO-8601 (` + "`" + `2025-01-15` + "`" + ` or full timestamps). ` + "`" + `lastmod` + "`" + ` must
   not precede ` + "`" + `date` + "`" + `.

## Assets & Images

- Upload assets via the ` + "`" + `upload_asset` + "`" + ` tool. It returns a ` + "`" + `markdownImage` + "`" + ` field ready to paste into the post body.
- Assets are stored in the shared ` + "`" + `attachments/` + "`" + ` directory (flat, no sub-folders).
- Reference in posts using the absolute path: ` + "`" + `![description](/attachments/filename.png)` + "`" + `
- Supported formats: png, jpg, jpeg, gif, webp, svg, pdf.
- Do **not** use relative paths like ` + "`" + `./attachments/...` + "`" + ` — always use ` + "`" + `/attachments/filename` + "`" + `.

## Example

` + "```" + `markdown
---
title: Shipping the new search index
description: How we rebuilt full-text search on SQLite FTS5.
date: 2025-01-20
draft: false
categories:
  - engineering
tags:
  - sqlite
  - search
contributors:
  - Jane Doe
---

# Shipping the new search index

We migrated the catalog to FTS5 last sprint.

![Query latency chart](/attachments/fts-latency.png)

See the [rollout checklist](operations/rollout.md) for the deploy steps.
` + "```" + `
`
