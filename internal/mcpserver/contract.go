package mcpserver

// LinkResolutionContract describes how wikilink targets are normalized
// and resolved to document paths. LLM consumers should follow these
// rules when writing links or interpreting resolution results.
const LinkResolutionContract = `# Raido Link Resolution Contract

Every wikilink target goes through normalization and then a resolution
cascade. Understanding both makes backlink results predictable.

## Normalization

Applied to the raw text inside ` + "`" + `[[...]]` + "`" + ` before any lookup:

1. Surrounding whitespace is trimmed.
2. A single leading ` + "`" + `./` + "`" + ` or ` + "`" + `/` + "`" + ` prefix is removed.
3. A leading ` + "`" + `#` + "`" + ` is removed (` + "`" + `[[#Section]]` + "`" + ` refers to the current document).
4. A trailing ` + "`" + `#fragment` + "`" + ` is removed (` + "`" + `[[Note#Heading]]` + "`" + ` targets the note, not the heading).
5. A trailing ` + "`" + `.md` + "`" + ` extension is removed.
6. Whitespace is trimmed again.

Examples:

- ` + "`" + `./Folder/Note.md#Heading` + "`" + ` normalizes to ` + "`" + `Folder/Note` + "`" + `
- ` + "`" + `#Overview` + "`" + ` normalizes to ` + "`" + `Overview` + "`" + `
- ` + "`" + `Note.md` + "`" + ` normalizes to ` + "`" + `Note` + "`" + `

## Resolution cascade

The normalized target is matched against the document set in order.
The first stage that produces a match wins:

1. **Direct path.** The target equals a document path, with or without
   the ` + "`" + `.md` + "`" + ` extension (` + "`" + `[[folder/note]]` + "`" + ` matches ` + "`" + `folder/note.md` + "`" + `).
2. **File name.** The target equals a document's base name. Exact case
   is preferred; a case-insensitive match is the fallback.
3. **Alias.** The target matches an entry in a document's frontmatter
   ` + "`" + `aliases` + "`" + ` list, compared case-insensitively.

A link that survives all three stages unmatched is **unresolved**. It
still produces a backlink when its text names the queried document.

## Rules for writing links

1. **Wikilinks** use double brackets: ` + "`" + `[[other-note]]` + "`" + `. The target is the
   filename stem (no ` + "`" + `.md` + "`" + ` extension, path separators OK: ` + "`" + `[[folder/note]]` + "`" + `).
2. **Display aliases** use a pipe: ` + "`" + `[[target|shown text]]` + "`" + `.
3. **Heading links** use a hash: ` + "`" + `[[target#Heading]]` + "`" + `. The fragment is
   ignored for resolution.
4. **File paths** end with ` + "`" + `.md` + "`" + ` and use forward slashes.
5. **Aliases** are declared in YAML frontmatter:

` + "```" + `markdown
---
title: Continuous Integration
aliases:
  - CI
  - ci-pipeline
---
` + "```" + `

Any document may then link here as ` + "`" + `[[CI]]` + "`" + `.

## Block extraction

When context blocks are requested for a backlink, the block spans from
the start of the line containing the reference to whichever comes
first: the next horizontal rule (a line of three or more dashes; table
separator rows containing ` + "`" + `|` + "`" + ` do not count), the next reference to
the same note, or the end of the document.
`
