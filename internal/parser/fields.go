package parser

// collectInstanceFields returns the attribute names assigned through each
// method's receiver, de-duplicated in first-seen order. Static and class
// methods have no instance receiver and nested classes own their fields.
func collectInstanceFields(class *ClassDef) []string {
	seen := make(map[string]bool)
	var fields []string

	for _, method := range class.Methods() {
		if method.Receiver == "" || hasDecorator(method, "staticmethod", "classmethod") {
			continue
		}
		Walk(method.Body, func(s Statement) bool {
			if _, nested := s.(*ClassDef); nested {
				return false
			}
			assign, ok := s.(*AssignStmt)
			if !ok {
				return true
			}
			for _, target := range assign.Targets {
				attr, ok := target.(*Attribute)
				if !ok {
					continue
				}
				if recv, ok := attr.Value.(*Name); ok && recv.ID == method.Receiver && !seen[attr.Attr] {
					seen[attr.Attr] = true
					fields = append(fields, attr.Attr)
				}
			}
			return true
		})
	}

	return fields
}

func hasDecorator(fn *FunctionDef, names ...string) bool {
	for _, dec := range fn.Decorators {
		name := TrailingName(dec)
		for _, n := range names {
			if name == n {
				return true
			}
		}
	}
	return false
}
