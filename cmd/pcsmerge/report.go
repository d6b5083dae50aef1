package main

import (
	"pcsmerge/content"
	"pcsmerge/langmodel"
	"pcsmerge/treebuild"
)

// metadataGetter is satisfied by every langmodel element; it's declared
// locally rather than in treebuild.Element because plain conflict reporting
// is a CLI concern, not something the merge core needs to expose.
type metadataGetter interface {
	Metadata(key string) any
}

// outcomeReport is the JSON shape printed for a single merge run.
type outcomeReport struct {
	Scenario        string `json:"scenario,omitempty"`
	HasConflicts    bool   `json:"has_conflicts"`
	StructuralCount int    `json:"structural_conflicts"`
	ContentCount    int    `json:"content_conflicts"`
	ChangeSetHash   string `json:"change_set_hash"`
	ResultHash      string `json:"result_hash"`
}

// collectConflicts walks the shallow, known shape of a langmodel merge
// result (CompilationUnit -> TypeDecl -> members) and gathers every
// conflict-bearing metadata value it finds, for hashing and counting.
// It intentionally doesn't walk arbitrary trees: langmodel is a fixed toy
// model, not a generic AST, so there is no pretty-printer-style visitor to
// reuse here.
func collectConflicts(root treebuild.Element) (conflicts []any, structuralCount, contentCount int) {
	cu, ok := root.(*langmodel.CompilationUnit)
	if !ok || cu.TypeDecl == nil {
		return nil, 0, 0
	}
	td, ok := cu.TypeDecl.(*langmodel.TypeDecl)
	if !ok {
		return nil, 0, 0
	}
	for _, member := range td.Members {
		inspectMember(member, &conflicts, &structuralCount, &contentCount)
		if method, ok := member.(*langmodel.Method); ok {
			for _, stmt := range method.Body {
				inspectMember(stmt, &conflicts, &structuralCount, &contentCount)
			}
		}
	}
	return conflicts, structuralCount, contentCount
}

func inspectMember(el treebuild.Element, conflicts *[]any, structuralCount, contentCount *int) {
	mg, ok := el.(metadataGetter)
	if !ok {
		return
	}
	if sc, ok := mg.Metadata(treebuild.MetaStructuralConflict).(treebuild.StructuralConflict); ok {
		*structuralCount++
		*conflicts = append(*conflicts, sc)
	}
	if global, ok := mg.Metadata(treebuild.MetaGlobalConflictMap).(map[string]content.SentinelConflict); ok && len(global) > 0 {
		*contentCount += len(global)
		*conflicts = append(*conflicts, global)
	}
	if local, ok := mg.Metadata(treebuild.MetaLocalConflictMap).(map[string]content.LocalConflict); ok && len(local) > 0 {
		*contentCount += len(local)
		*conflicts = append(*conflicts, local)
	}
	if comment, ok := mg.Metadata(treebuild.MetaCommentConflict).(string); ok && comment != "" {
		*contentCount++
		*conflicts = append(*conflicts, comment)
	}
}
