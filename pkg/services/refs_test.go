package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadReferences(t *testing.T) {
	content := `---
id: refs
thumbnail: /uploads/thumb.png
---

![inline](/uploads/a.png "Title")
[download](/uploads/report.pdf)
![ref][pic]
![again](/uploads/a.png)
![external](https://example.com/uploads/b.png)
<img src="/uploads/raw.gif" alt="">
<a href='/uploads/doc.txt?dl=1'>doc</a>

[pic]: /uploads/ref.jpg
`
	assert.Equal(t, []string{
		"/uploads/thumb.png",
		"/uploads/a.png",
		"/uploads/report.pdf",
		"/uploads/ref.jpg",
		"/uploads/raw.gif",
		"/uploads/doc.txt",
	}, UploadReferences(content))
}

func TestUploadReferences_NoneFound(t *testing.T) {
	assert.Empty(t, UploadReferences("# Title\n\nNo uploads here, only /uploads/ as text.\n"))
}
