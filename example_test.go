package schema

import (
	"fmt"
)

func ExampleSchemaDefinition_Validate() {
	raw, _ := ParseString(`{"name":"Ada","email":"ada@example.com","age":"36"}`)

	res := NewSchemaDefinition(raw).
		Field("name", TypeString, Required(), MinLength(2)).
		Field("email", TypeString, Required(), Format(FormatEmail)).
		Field("age", TypeInt64, Min(18)).
		Validate()

	out := res.Value()
	name, _ := out.GetString("name")
	age, _ := out.GetInt("age")
	fmt.Println(name, age)
	// Output: Ada 36
}

func ExampleSchemaDefinition_Validate_errors() {
	raw, _ := ParseString(`{"email":"nope","age":12}`)

	res := NewSchemaDefinition(raw).
		Field("name", TypeString, Required()).
		Field("email", TypeString, Format(FormatEmail)).
		Field("age", TypeInt64, Min(18)).
		Validate()

	for _, fe := range res.Errors() {
		fmt.Printf("%s: %s\n", fe.Field, fe.Code)
	}
	// Output:
	// name: required_field_missing
	// email: invalid_format
	// age: range_out_of_range
}

func ExampleParseParams() {
	obj := ParseParams("user[name]=Ada&tags[]=go&tags[]=http&page=2")
	fmt.Println(ObjectVal(obj).MustJSON())
	// Output: {"user":{"name":"Ada"},"tags":["go","http"],"page":2}
}

func ExampleFromResult() {
	raw, _ := ParseString(`{}`)
	res := NewSchemaDefinition(raw).
		Field("name", TypeString, Required()).
		Validate()

	resp := FromResult(res).Build()
	fmt.Println(resp.Status, resp.HTTPStatus())
	// Output: error 422
}
