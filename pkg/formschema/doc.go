// Package formschema loads form definitions from JSON/YAML documents: fields,
// defaults, structured condition blocks, and visibleWhen rules. It is the
// strict end of the condition contract: expressions the evaluator would
// permissively treat as never-visible are rejected at load time with the file
// and field that caused them.
package formschema
