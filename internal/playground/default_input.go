package playground

// DefaultInput is shown when the playground starts without a file.
const DefaultInput = `---
title: Markdown Parser Playground
author: Demo User
date: 2024-01-15
tags: [markdown, parser, demo]
draft: false
---

# Markdown Parser Playground

Try editing this markdown text to see the AST output!

## Features

- **GitHub Flavored Markdown** (GFM)
- **Obsidian Flavored Markdown** (OFM)
- CJK text support
- Smart punctuation
- And more...

` + "```javascript\nconsole.log('Hello, World!');\n```" + `

| Feature | Supported |
|---------|-----------|
| Tables  | ✓         |
| Lists   | ✓         |

#tag [[wikilink]]
`
