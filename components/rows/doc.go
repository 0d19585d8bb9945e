// Package rows serves pre-rendered table rows as JSON for the admin
// navigation controller.
//
// The handler answers GET and HEAD on <RoutePath><resource>/row with an
// array of {"id", "htmlString"} objects in ascending id order and 404 for
// resources it does not know. Rows come from a Source; by default the
// embedded fixtures under data/rows.yaml are used.
package rows
