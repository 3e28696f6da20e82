package constant

// Lua extractor entry points. Every script must define both globals.
const (
	MatchFn   = "Match"
	ExtractFn = "Extract"
)

// ExtractorExtension is the file extension of Lua extractor scripts.
const ExtractorExtension = ".lua"

// ExtractorTemplate is a text/template for scaffolding new Lua extractor files.
const ExtractorTemplate = `{{ $divider := repeat "-" (plus (max (len .Pattern) (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @match   {{ .Pattern }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}


---@alias video { url: string, quality: string|nil, title: string|nil, playlist: boolean|nil }


----- IMPORTS -----
local strings = require("strings")
--- END IMPORTS ---



----- MAIN -----

--- Reports whether this extractor understands the page.
-- @param page_url string URL of the top-level document
-- @return boolean
function {{ .MatchFn }}(page_url)
	return strings.contains(page_url, "{{ .Pattern }}")
end


--- Extracts videos from a page payload (HTML or embedded JSON).
-- @param page_url string URL of the top-level document
-- @param body string Raw payload handed over by the page
-- @return video[] Table of videos
function {{ .ExtractFn }}(page_url, body)
	return {}
end


--- END MAIN ---

-- ex: ts=4 sw=4 et filetype=lua
`
