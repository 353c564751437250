// ABOUTME: Static descriptor for the search_localities tool.
// ABOUTME: Description and JSON Schema advertised through tools/list.

package locality

import "encoding/json"

// ToolName is the MCP name of the locality search tool.
const ToolName = "search_localities"

// DefaultLimit is the result limit advertised in the schema.
const DefaultLimit = 1000

const toolDescription = `Search for French localities (cities, towns, villages) with comprehensive filtering options and demographic data.

This tool combines data from La Poste, the French postal service, with official French administrative data from INSEE.

**Search Methods:**
- By name: partial or full locality name (e.g., 'Paris', 'Saint-Denis')
- By postal code(s): single code or list of codes (e.g., ['75001', '92100', '77100'])
- By region: single or list of region names or INSEE codes (e.g., 'ILE DE FRANCE' or '11')
- By department: single or list of department names or INSEE codes (e.g., 'Paris' or '75')
- By population: min/max thresholds

**Returned Data (when details=true):**
- Official locality name and INSEE code
- Postal code(s)
- Population data (2022, 2016, 2011): total, municipal, and counted separately
- Department information: name, code, population
- Region information: name, code, population

**Best Practices:**
- Use postal_code for exact matching when you have a list of postal codes
- Use q (name search) for fuzzy/partial matching
- Combine filters to narrow results (e.g., region + population range)
- Set limit appropriately: max 1000
- Enable details=true to get full demographic information

**Typical Use Cases:**
- Enrich address databases with population data
- Validate postal codes and locality names
- Analyze demographic distribution by region/department
- Build autocomplete systems for French addresses

Returns up to 1000 results per query with official INSEE population census data.`

// inputSchema is the JSON Schema for the tool's arguments.
var inputSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "q": {
      "type": "string",
      "description": "Search query for locality name (e.g., 'Paris', 'Lyon', 'Marseille')"
    },
    "limit": {
      "type": "integer",
      "description": "Maximum number of results to return (default: 1000)",
      "default": 1000,
      "minimum": 1,
      "maximum": 1000
    },
    "postal_code": {
      "type": "array",
      "items": {"type": "string"},
      "description": "Filter by postal code(s) (e.g., ['75001'] for Paris 1er arrondissement). Several codes can be combined (e.g., ['75001','62930'] for Paris 1er arrondissement and Wimereux)."
    },
    "department_code": {
      "type": "array",
      "items": {"type": "string"},
      "description": "Filter by department INSEE code(s) (e.g., ['75'] for Paris, ['13'] for Bouches-du-Rhône)."
    },
    "department_name": {
      "type": "array",
      "items": {"type": "string"},
      "description": "Filter by department name(s) (e.g., ['Paris', 'Rhône'])"
    },
    "region_code": {
      "type": "array",
      "items": {"type": "string"},
      "description": "Filter by region INSEE code(s) (e.g., ['11'] for Île-de-France)"
    },
    "region_name": {
      "type": "array",
      "items": {"type": "string"},
      "description": "Filter by region name(s) in UPPERCASE (e.g., ['BRETAGNE', 'OCCITANIE', 'ILE DE FRANCE'])"
    },
    "population_min": {
      "type": "integer",
      "description": "Minimum population threshold",
      "minimum": 0
    },
    "population_max": {
      "type": "integer",
      "description": "Maximum population threshold",
      "minimum": 0
    },
    "details": {
      "type": "boolean",
      "description": "Include detailed administrative information (default: true)",
      "default": true
    }
  },
  "required": []
}`)

// Description returns the markdown description advertised for the tool.
func Description() string {
	return toolDescription
}
