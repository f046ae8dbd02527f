// Package coreapi models the API description that the schema generator
// produces and the swagger renderers consume.
//
// A Document holds an ordered tree of sections and links. A Link is a single
// operation (URL template, HTTP action, encoding) with its Fields. Documents
// are built once per request and never mutated by renderers.
//
//	doc := &coreapi.Document{
//	    Title: "Pets",
//	    URL:   "https://api.example.com/",
//	    Content: []coreapi.Item{
//	        coreapi.Section("pets",
//	            coreapi.LinkItem("list", &coreapi.Link{URL: "/pets/", Action: "get"}),
//	        ),
//	    },
//	}
//
// Links walks the tree depth-first and yields each link with the keys that
// lead to it, which the OpenAPI codec turns into tags and operation IDs.
package coreapi
