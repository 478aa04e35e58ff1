package vcs

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleDiff = `## Staged Changes
diff --git a/src/user.test.ts b/src/user.test.ts
new file mode 100644
index 0000000..e69de29
--- /dev/null
+++ b/src/user.test.ts
@@ -0,0 +1 @@
+test("x", () => {})
diff --git a/internal/gate/gate_test.go b/internal/gate/gate_test.go
index 1111111..2222222 100644
--- a/internal/gate/gate_test.go
+++ b/internal/gate/gate_test.go
@@ -1 +1 @@
-package gate
+package gate_test
diff --git a/old_test.go b/old_test.go
deleted file mode 100644
index 3333333..0000000
--- a/old_test.go
+++ /dev/null
@@ -1 +0,0 @@
-package old


## Unstaged Changes
diff --git a/Api/UserTests.cs b/Api/UserTests.cs
index 4444444..5555555 100644
--- a/Api/UserTests.cs
+++ b/Api/UserTests.cs
@@ -1 +1 @@
-a
+b
diff --git a/app/test_views.py b/app/test_views.py
index 6666666..7777777 100644
--- a/app/test_views.py
+++ b/app/test_views.py
@@ -1 +1 @@
-a
+b
diff --git a/src/user.ts b/src/user.ts
index 8888888..9999999 100644
--- a/src/user.ts
+++ b/src/user.ts
@@ -1 +1 @@
-a
+b
`

func TestExtractTestFiles(t *testing.T) {
	files := ExtractTestFiles(sampleDiff)
	assert.ElementsMatch(t, []string{
		"src/user.test.ts",
		"internal/gate/gate_test.go",
		"Api/UserTests.cs",
		"app/test_views.py",
	}, files)
}

func TestExtractTestFilesEmpty(t *testing.T) {
	assert.Empty(t, ExtractTestFiles(""))
}

func TestExtractTestFilesCustomPatterns(t *testing.T) {
	files := ExtractTestFiles(sampleDiff, regexp.MustCompile(`\.ts$`))
	assert.ElementsMatch(t, []string{"src/user.test.ts", "src/user.ts"}, files)
}

func TestExtractTestFilesPlainLines(t *testing.T) {
	diff := "+++ b/pkg/a_test.go\n+++ b/pkg/a_test.go\n+++ b/web/app.spec.jsx\n+++ b/README.md\n"
	assert.ElementsMatch(t, []string{"pkg/a_test.go", "web/app.spec.jsx"}, ExtractTestFiles(diff))
}
