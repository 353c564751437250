// Package trustydata is a small client for the TrustyData locality search API.
//
// The API answers
//
//	GET <base>/locality/search?q=Paris&limit=3&department_code=75
//	Authorization: Bearer <api key>
//
// with a JSON document:
//
//	{
//	  "status": "OK",
//	  "message": "",
//	  "count": 1,
//	  "choices": [
//	    {
//	      "nom_commune": "Paris",
//	      "code_postal": "75001",
//	      "cog": {"insee": "75056"},
//	      "population": [{"periode": "2022", "totale": 2133111, "municipale": 2113705, "comptee_a_part": 19406}],
//	      "departement": {"id": "75", "libelle": "Paris", "population": [...]},
//	      "region": {"id": "11", "libelle": "ILE DE FRANCE", "population": [...]}
//	    }
//	  ]
//	}
//
// Non-2xx answers surface as *HTTPError carrying the status code and body so
// callers can report them verbatim. Transport, timeout, and decode failures
// are returned as wrapped errors.
package trustydata
